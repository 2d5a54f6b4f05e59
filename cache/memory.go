package cache

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/briangreenhill/pokedex/pokeapi"
)

// Memory implements Cache with a map and a singleflight group keyed by id.
// It is unbounded.
type Memory struct {
	mu      sync.RWMutex
	entries map[int]pokeapi.Pokemon

	inflight singleflight.Group
}

// NewMemory creates an empty in-memory cache
func NewMemory() *Memory {
	return &Memory{entries: make(map[int]pokeapi.Pokemon)}
}

// Read implements Reader interface
func (m *Memory) Read(id int) (pokeapi.Pokemon, bool) {
	m.mu.RLock()
	p, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return pokeapi.Pokemon{}, false
	}
	return p.Clone(), true
}

// Write implements Writer interface. The first write for an id wins.
func (m *Memory) Write(p pokeapi.Pokemon) {
	if p.ID < 1 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[p.ID]; ok {
		return
	}
	m.entries[p.ID] = p.Clone()
}

// Load implements Loader interface
func (m *Memory) Load(id int, fetch func() (pokeapi.Pokemon, error)) (pokeapi.Pokemon, error) {
	if p, ok := m.Read(id); ok {
		return p, nil
	}

	v, err, _ := m.inflight.Do(strconv.Itoa(id), func() (any, error) {
		// a concurrent flight may have finished between Read and Do
		if p, ok := m.Read(id); ok {
			return p, nil
		}
		p, err := fetch()
		if err != nil {
			return nil, err
		}
		m.Write(p)
		return p, nil
	})
	if err != nil {
		return pokeapi.Pokemon{}, err
	}
	return v.(pokeapi.Pokemon).Clone(), nil
}

// Len returns the number of cached entries
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

var (
	_ Cache         = (*Memory)(nil)
	_ pokeapi.Cache = (*Memory)(nil)
)
