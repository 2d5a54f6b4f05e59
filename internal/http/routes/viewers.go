package routes

import (
	"sync"

	"github.com/briangreenhill/pokedex/internal/dex"
)

// Viewers maps viewer ids to their controllers.
// TODO: evict controllers whose session has expired; the map only grows.
type Viewers struct {
	mu          sync.Mutex
	controllers map[string]*dex.Controller
	newFn       func() *dex.Controller
}

// NewViewers creates a registry that builds controllers with newFn
func NewViewers(newFn func() *dex.Controller) *Viewers {
	return &Viewers{
		controllers: make(map[string]*dex.Controller),
		newFn:       newFn,
	}
}

// Get returns the controller for id, creating it on first use.
// created reports whether this call made it.
func (v *Viewers) Get(id string) (c *dex.Controller, created bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if c, ok := v.controllers[id]; ok {
		return c, false
	}
	c = v.newFn()
	v.controllers[id] = c
	return c, true
}

// Len returns the number of known viewers
func (v *Viewers) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.controllers)
}
