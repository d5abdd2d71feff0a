package modclient

import "github.com/ivankudzin/worklance/backend/internal/domain/model"

const defaultCacheCapacity = 100

type cacheKey struct {
	contentType string
	text        string
}

// verdictCache is a fixed-capacity map with FIFO eviction. Keys are the
// exact trimmed input plus content type, so near-duplicate phrasing gets
// its own entry.
type verdictCache struct {
	capacity int
	entries  map[cacheKey]model.Verdict
	order    []cacheKey
}

func newVerdictCache(capacity int) *verdictCache {
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}

	return &verdictCache{
		capacity: capacity,
		entries:  make(map[cacheKey]model.Verdict, capacity),
	}
}

func (c *verdictCache) Get(key cacheKey) (model.Verdict, bool) {
	verdict, ok := c.entries[key]
	return verdict, ok
}

func (c *verdictCache) Put(key cacheKey, verdict model.Verdict) {
	if _, ok := c.entries[key]; ok {
		// Refresh in place, insertion order is unchanged.
		c.entries[key] = verdict
		return
	}

	if len(c.entries) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = verdict
	c.order = append(c.order, key)
}

func (c *verdictCache) Len() int {
	return len(c.entries)
}
