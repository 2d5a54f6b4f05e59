// Package dex owns what a viewer sees: the page offset, the search query,
// the not-found flag and the displayed entries. It decides which catalog
// calls each trigger makes and how their results are applied.
package dex

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/briangreenhill/pokedex/pokeapi"
)

const (
	PageSize   = 9
	TotalCount = pokeapi.DefaultTotal
)

// Resolver is the part of the catalog client the controller drives.
// *pokeapi.Client satisfies it.
type Resolver interface {
	ResolveRange(ctx context.Context, start, count int) ([]pokeapi.Pokemon, error)
	ResolveByName(ctx context.Context, name string) (pokeapi.Pokemon, error)
}

// View is a snapshot of the display state.
type View struct {
	Entries     []pokeapi.Pokemon `json:"entries"`
	NotFound    bool              `json:"not_found"`
	Query       string            `json:"query"`
	Offset      int               `json:"offset"`
	CurrentPage int               `json:"current_page"`
	TotalPages  int               `json:"total_pages"`
	HasPrev     bool              `json:"has_prev"`
	HasNext     bool              `json:"has_next"`
}

// Controller is safe for concurrent use. Triggers may overlap; each one is
// tagged with a sequence number and only the latest issued trigger may
// change the display state when it settles.
type Controller struct {
	resolver Resolver
	pageSize int
	total    int
	log      zerolog.Logger

	mu       sync.Mutex
	offset   int
	query    string
	entries  []pokeapi.Pokemon
	notFound bool
	seq      uint64
}

type Option func(*Controller)

func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

func WithTotal(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.total = n
		}
	}
}

// WithOffset sets the starting offset. It is rounded down to a page
// boundary and clamped to the last page.
func WithOffset(offset int) Option {
	return func(c *Controller) { c.offset = offset }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func New(r Resolver, opts ...Option) *Controller {
	c := &Controller{
		resolver: r,
		pageSize: PageSize,
		total:    TotalCount,
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.offset = c.clampOffset(c.offset)
	return c
}

func (c *Controller) clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset >= c.total {
		offset = c.total - 1
	}
	return offset - offset%c.pageSize
}

// Load loads the page at the current offset. It is the initial trigger
// when a viewer first appears.
func (c *Controller) Load(ctx context.Context) View {
	c.mu.Lock()
	seq, offset := c.issue(), c.offset
	c.mu.Unlock()

	c.loadPage(ctx, seq, offset)
	return c.View()
}

// NextPage advances one page and loads it. It does nothing on the last page.
func (c *Controller) NextPage(ctx context.Context) View {
	c.mu.Lock()
	if c.offset+c.pageSize >= c.total {
		c.mu.Unlock()
		return c.View()
	}
	c.offset += c.pageSize
	seq, offset := c.issue(), c.offset
	c.mu.Unlock()

	c.loadPage(ctx, seq, offset)
	return c.View()
}

// PrevPage goes back one page and loads it. It does nothing on the first page.
func (c *Controller) PrevPage(ctx context.Context) View {
	c.mu.Lock()
	if c.offset < c.pageSize {
		c.mu.Unlock()
		return c.View()
	}
	c.offset -= c.pageSize
	seq, offset := c.issue(), c.offset
	c.mu.Unlock()

	c.loadPage(ctx, seq, offset)
	return c.View()
}

// SetQuery records the search text without submitting it.
func (c *Controller) SetQuery(term string) {
	c.mu.Lock()
	c.query = term
	c.mu.Unlock()
}

// Search submits term. A blank term reloads the current page. Otherwise the
// display becomes the single matching entry, or empty with NotFound set.
func (c *Controller) Search(ctx context.Context, term string) View {
	c.mu.Lock()
	c.query = term
	seq, offset := c.issue(), c.offset
	c.mu.Unlock()

	if strings.TrimSpace(term) == "" {
		c.loadPage(ctx, seq, offset)
		return c.View()
	}

	p, err := c.resolver.ResolveByName(ctx, term)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(seq) {
		return c.viewLocked()
	}
	if err != nil {
		c.log.Info().Err(err).Str("query", term).Msg("search failed")
		c.entries = []pokeapi.Pokemon{}
		c.notFound = true
		return c.viewLocked()
	}
	c.entries = []pokeapi.Pokemon{p}
	c.notFound = false
	return c.viewLocked()
}

// loadPage resolves the page starting at offset. On failure the previous
// display state is kept and the error is only logged.
func (c *Controller) loadPage(ctx context.Context, seq uint64, offset int) {
	count := min(c.pageSize, c.total-offset)
	entries, err := c.resolver.ResolveRange(ctx, offset+1, count)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.log.Warn().Err(err).Int("offset", offset).Msg("page load failed")
		return
	}
	if !c.current(seq) {
		return
	}
	c.entries = entries
	c.notFound = false
}

// issue must be called with mu held.
func (c *Controller) issue() uint64 {
	c.seq++
	return c.seq
}

// current must be called with mu held.
func (c *Controller) current(seq uint64) bool {
	if seq == c.seq {
		return true
	}
	c.log.Debug().Uint64("seq", seq).Uint64("latest", c.seq).Msg("discarding stale result")
	return false
}

// View returns the current display state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() View {
	entries := make([]pokeapi.Pokemon, len(c.entries))
	for i, p := range c.entries {
		entries[i] = p.Clone()
	}
	return View{
		Entries:     entries,
		NotFound:    c.notFound,
		Query:       c.query,
		Offset:      c.offset,
		CurrentPage: c.offset/c.pageSize + 1,
		TotalPages:  (c.total + c.pageSize - 1) / c.pageSize,
		HasPrev:     c.offset > 0,
		HasNext:     c.offset+c.pageSize < c.total,
	}
}
