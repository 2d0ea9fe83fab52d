package geocode

import (
	"context"
	"sync"

	"github.com/droproute/droproute/internal/geo"
)

// Cache stores resolved coordinates keyed by the exact address string.
// Keys are case- and whitespace-sensitive: no normalization is applied, so
// "12 Main St" and "12 main st" are distinct entries. Values are immutable
// once written; last-writer-wins on concurrent inserts is acceptable because
// any successful geocode of the same string yields the same coordinate.
type Cache interface {
	// Get returns the cached coordinate for the address, if present.
	Get(ctx context.Context, address string) (geo.Coordinate, bool)
	// Put stores the coordinate for the address.
	Put(ctx context.Context, address string, coord geo.Coordinate)
}

// MemoryCache is an in-process Cache with no eviction. Entries live for the
// process lifetime; unbounded growth is accepted since the working set is one
// address book.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]geo.Coordinate
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]geo.Coordinate),
	}
}

// Get returns the cached coordinate for the address, if present.
func (c *MemoryCache) Get(_ context.Context, address string) (geo.Coordinate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	coord, ok := c.entries[address]
	return coord, ok
}

// Put stores the coordinate for the address.
func (c *MemoryCache) Put(_ context.Context, address string, coord geo.Coordinate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[address] = coord
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
