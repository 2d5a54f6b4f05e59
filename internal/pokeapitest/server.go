// Package pokeapitest serves a synthetic catalog shaped like the public
// pokemon API, for tests.
package pokeapitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

// Known entries; every other id in 1..Total is named "mon<id>" with type normal.
var known = map[int]struct {
	name  string
	types []string
}{
	1:  {"bulbasaur", []string{"grass", "poison"}},
	2:  {"ivysaur", []string{"grass", "poison"}},
	3:  {"venusaur", []string{"grass", "poison"}},
	4:  {"charmander", []string{"fire"}},
	5:  {"charmeleon", []string{"fire"}},
	6:  {"charizard", []string{"fire", "flying"}},
	7:  {"squirtle", []string{"water"}},
	8:  {"wartortle", []string{"water"}},
	9:  {"blastoise", []string{"water"}},
	25: {"pikachu", []string{"electric"}},
}

const enFlavor = "A strange seed was\fplanted on its\nback at birth."

type override struct {
	status int
	body   any
}

// Server is an httptest server with request counters and per-path overrides.
type Server struct {
	*httptest.Server
	Total int

	mu        sync.Mutex
	hits      map[string]int
	overrides map[string]override
}

// NewServer starts a catalog with ids 1..total.
func NewServer(total int) *Server {
	s := &Server{
		Total:     total,
		hits:      make(map[string]int),
		overrides: make(map[string]override),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// BaseURL is the value to configure as the client's base URL.
func (s *Server) BaseURL() string { return s.URL + "/api/v2" }

// Hits returns how many requests were made for path, e.g. "/api/v2/pokemon/1".
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// TotalHits returns the number of requests served so far.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.hits {
		n += v
	}
	return n
}

// Override makes path answer with status and, if non-nil, body encoded as JSON.
func (s *Server) Override(path string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[path] = override{status: status, body: body}
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimRight(r.URL.Path, "/")

	s.mu.Lock()
	s.hits[path]++
	ov, hasOverride := s.overrides[path]
	s.mu.Unlock()

	if hasOverride {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(ov.status)
		if ov.body != nil {
			_ = json.NewEncoder(w).Encode(ov.body)
		}
		return
	}

	parts := strings.Split(strings.TrimPrefix(path, "/api/v2/"), "/")
	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}
	id, ok := s.lookup(parts[1])
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	var doc any
	switch parts[0] {
	case "pokemon":
		doc = s.pokemon(id)
	case "pokemon-species":
		doc = s.species(id)
	default:
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(doc)
}

// Name returns the catalog name for id.
func Name(id int) string {
	if k, ok := known[id]; ok {
		return k.name
	}
	return fmt.Sprintf("mon%d", id)
}

// Types returns the catalog types for id.
func Types(id int) []string {
	if k, ok := known[id]; ok {
		return k.types
	}
	return []string{"normal"}
}

// FlavorText is the English flavor text every synthetic species carries.
func FlavorText() string { return enFlavor }

func (s *Server) lookup(key string) (int, bool) {
	if id, err := strconv.Atoi(key); err == nil {
		return id, id >= 1 && id <= s.Total
	}
	for id, k := range known {
		if k.name == key && id <= s.Total {
			return id, true
		}
	}
	if rest, ok := strings.CutPrefix(key, "mon"); ok {
		if id, err := strconv.Atoi(rest); err == nil && id >= 1 && id <= s.Total {
			return id, Name(id) == key
		}
	}
	return 0, false
}

func (s *Server) pokemon(id int) map[string]any {
	types := make([]map[string]any, 0, 2)
	for i, t := range Types(id) {
		types = append(types, map[string]any{
			"slot": i + 1,
			"type": map[string]any{"name": t, "url": s.BaseURL() + "/type/" + t + "/"},
		})
	}
	return map[string]any{
		"id":   id,
		"name": Name(id),
		"sprites": map[string]any{
			"front_default": fmt.Sprintf("%s/sprites/%d.png", s.URL, id),
		},
		"types": types,
	}
}

func (s *Server) species(id int) map[string]any {
	return map[string]any{
		"id":   id,
		"name": Name(id),
		"varieties": []map[string]any{
			{
				"is_default": true,
				"pokemon": map[string]any{
					"name": Name(id),
					"url":  fmt.Sprintf("%s/pokemon/%d/", s.BaseURL(), id),
				},
			},
		},
		"flavor_text_entries": []map[string]any{
			{"flavor_text": "ふしぎな タネが", "language": map[string]any{"name": "ja"}},
			{"flavor_text": enFlavor, "language": map[string]any{"name": "en"}},
			{"flavor_text": "second english entry", "language": map[string]any{"name": "en"}},
		},
	}
}
