package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gregjones/httpcache"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://pokeapi.co/api/v2"
	// DefaultTotal is the number of species in the national catalog.
	DefaultTotal = 1025
)

// Cache is the entry store the client reads through. Load must run fetch at
// most once per id while a fetch for that id is in flight.
type Cache interface {
	Write(p Pokemon)
	Load(id int, fetch func() (Pokemon, error)) (Pokemon, error)
}

type Client struct {
	http    *http.Client
	baseURL *url.URL
	total   int
	limiter *rate.Limiter
	log     zerolog.Logger

	cache Cache // optional; nil means every call goes to the network
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}
func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if u, err := url.Parse(strings.TrimRight(raw, "/")); err == nil {
			c.baseURL = u
		}
	}
}
func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithTotal sets the catalog size used to clamp ranges.
func WithTotal(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.total = n
		}
	}
}

// WithRateLimit caps outbound requests per second. rps <= 0 disables it.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a client. The default transport keeps an in-memory HTTP cache
// so repeated resources are revalidated rather than downloaded again.
func New(opts ...Option) *Client {
	u, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		http:    &http.Client{Transport: httpcache.NewMemoryCacheTransport()},
		baseURL: u,
		total:   DefaultTotal,
		limiter: rate.NewLimiter(rate.Inf, 1),
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Total returns the catalog size the client clamps ranges to.
func (c *Client) Total() int { return c.total }

func (c *Client) endpoint(resource, key string) string {
	return c.baseURL.String() + "/" + resource + "/" + url.PathEscape(key)
}

// getJSON fetches rawURL and decodes it into out. A 404 becomes a
// NotFoundError for resource/key; anything else that fails is transient.
func (c *Client) getJSON(ctx context.Context, resource, key, rawURL string, out any) error {
	op := "GET " + rawURL
	if err := c.limiter.Wait(ctx); err != nil {
		return &TransientError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &TransientError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransientError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("url", rawURL).
		Int("status", resp.StatusCode).
		Bool("from_cache", resp.Header.Get(httpcache.XFromCache) == "1").
		Msg("pokeapi request")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return &NotFoundError{Resource: resource, Key: key}
	case resp.StatusCode != http.StatusOK:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &TransientError{Op: op, Err: fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(b)))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransientError{Op: "decode " + resource + " " + key, Err: err}
	}
	return nil
}

// ResolveByID returns the entry for id, from the cache when one is set.
// Ids outside 1..Total fail without a request.
func (c *Client) ResolveByID(ctx context.Context, id int) (Pokemon, error) {
	if id < 1 || id > c.total {
		return Pokemon{}, &NotFoundError{Resource: "pokemon", Key: strconv.Itoa(id)}
	}
	if c.cache == nil {
		return c.fetchByID(ctx, id)
	}
	return c.cache.Load(id, func() (Pokemon, error) {
		return c.fetchByID(ctx, id)
	})
}

func (c *Client) fetchByID(ctx context.Context, id int) (Pokemon, error) {
	key := strconv.Itoa(id)

	var pj PokemonJSON
	if err := c.getJSON(ctx, "pokemon", key, c.endpoint("pokemon", key), &pj); err != nil {
		return Pokemon{}, err
	}
	// a species miss after the base resource resolved is also reported as not found
	var sj SpeciesJSON
	if err := c.getJSON(ctx, "pokemon-species", key, c.endpoint("pokemon-species", key), &sj); err != nil {
		return Pokemon{}, err
	}
	return normalize(pj, sj)
}

// ResolveByName looks the species up case-insensitively, follows its default
// variety and merges the two. The result is written to the cache.
// Surrounding whitespace is trimmed before the lookup, so " pikachu " finds
// pikachu rather than failing as an unknown name.
func (c *Client) ResolveByName(ctx context.Context, name string) (Pokemon, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Pokemon{}, &NotFoundError{Resource: "pokemon-species", Key: name}
	}

	var sj SpeciesJSON
	if err := c.getJSON(ctx, "pokemon-species", key, c.endpoint("pokemon-species", key), &sj); err != nil {
		return Pokemon{}, err
	}

	v, ok := DefaultVariety(sj)
	if !ok || v.Pokemon.URL == "" {
		return Pokemon{}, &NotFoundError{Resource: "default variety", Key: key}
	}

	// variety URLs are absolute and fetched as-is
	var pj PokemonJSON
	if err := c.getJSON(ctx, "pokemon", key, v.Pokemon.URL, &pj); err != nil {
		return Pokemon{}, err
	}

	p, err := normalize(pj, sj)
	if err != nil {
		return Pokemon{}, err
	}
	if c.cache != nil {
		c.cache.Write(p)
	}
	return p, nil
}

// ResolveRange resolves start..start+count-1 concurrently, clamped to the
// catalog bounds. Output follows id order; any failure fails the whole range.
func (c *Client) ResolveRange(ctx context.Context, start, count int) ([]Pokemon, error) {
	if start < 1 {
		count -= 1 - start
		start = 1
	}
	last := min(start+count-1, c.total)
	if last < start {
		return []Pokemon{}, nil
	}

	out := make([]Pokemon, last-start+1)
	var g errgroup.Group
	for i := range out {
		id := start + i
		g.Go(func() error {
			p, err := c.ResolveByID(ctx, id)
			if err != nil {
				return fmt.Errorf("resolve %d: %w", id, err)
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// DefaultVariety returns the variety flagged as default, if any.
func DefaultVariety(sj SpeciesJSON) (VarietyJSON, bool) {
	for _, v := range sj.Varieties {
		if v.IsDefault {
			return v, true
		}
	}
	return VarietyJSON{}, false
}

// Description picks the first English flavor text with form feeds replaced
// by spaces, or NoDescription.
func Description(sj SpeciesJSON) string {
	for _, e := range sj.FlavorTextEntries {
		if e.Language.Name != "en" {
			continue
		}
		if text := strings.ReplaceAll(e.FlavorText, "\f", " "); text != "" {
			return text
		}
		break
	}
	return NoDescription
}

func normalize(pj PokemonJSON, sj SpeciesJSON) (Pokemon, error) {
	if pj.ID < 1 || len(pj.Types) == 0 {
		return Pokemon{}, &TransientError{
			Op:  "normalize pokemon " + pj.Name,
			Err: errors.New("response is missing id or types"),
		}
	}

	types := make([]string, 0, len(pj.Types))
	for _, t := range pj.Types {
		types = append(types, t.Type.Name)
	}

	p := Pokemon{
		ID:          pj.ID,
		Name:        pj.Name,
		Types:       types,
		Description: Description(sj),
	}
	if pj.Sprites.FrontDefault != nil {
		p.ImageURL = *pj.Sprites.FrontDefault
	}
	return p, nil
}
