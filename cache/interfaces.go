// Package cache provides the process-wide store of resolved catalog entries.
// Entries are written once and never refetched for the life of the process.
package cache

import "github.com/briangreenhill/pokedex/pokeapi"

// Reader defines the interface for reading cached entries
type Reader interface {
	// Read returns the entry for id and whether it was present
	Read(id int) (pokeapi.Pokemon, bool)
}

// Writer defines the interface for storing entries
type Writer interface {
	// Write stores p under p.ID unless an entry is already there
	Write(p pokeapi.Pokemon)
}

// Loader resolves an id through the cache
type Loader interface {
	// Load returns the cached entry or calls fetch, sharing one fetch between
	// concurrent callers for the same id. Failures are not cached.
	Load(id int, fetch func() (pokeapi.Pokemon, error)) (pokeapi.Pokemon, error)
}

// Cache is the main interface that combines all cache operations
type Cache interface {
	Reader
	Writer
	Loader
}
