package geocode

import (
	"sync"

	"github.com/koukeneko/wazai/internal/domain"
)

type cacheEntry struct {
	coords domain.Coordinates
	found  bool
}

// Cache memoizes resolution outcomes for the process lifetime, keyed by
// normalized address. Misses are cached too: an unresolvable address stays
// unresolvable, and re-querying a rate-limited upstream for it on every
// search would be the worst possible use of the request budget.
//
// There is no eviction. The key space is real-world venue addresses seen
// in search results, which is bounded in practice.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get returns the cached outcome for key. cached reports whether any
// outcome (hit or miss) was stored; found distinguishes the two.
func (c *Cache) Get(key string) (coords domain.Coordinates, found, cached bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.Coordinates{}, false, false
	}
	return e.coords, e.found, true
}

// Put stores a resolution outcome. found=false records a negative entry.
func (c *Cache) Put(key string, coords domain.Coordinates, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{coords: coords, found: found}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
