package tonindexer

import (
	"sync"
	"time"
)

// ttlCache is a small in-process response cache. It exists purely to
// avoid redundant network calls within a burst of reconciliation
// cycles; nothing consults it for correctness.
type ttlCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	nextGC  time.Time
}

type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

func newTTLCache() *ttlCache {
	return &ttlCache{
		entries: make(map[string]cacheEntry),
		nextGC:  time.Now().Add(time.Minute),
	}
}

func (c *ttlCache) get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *ttlCache) set(key string, value interface{}, ttl time.Duration) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{value: value, expiresAt: now.Add(ttl)}

	if now.After(c.nextGC) {
		for k, e := range c.entries {
			if e.expiresAt.Before(now) {
				delete(c.entries, k)
			}
		}
		c.nextGC = now.Add(time.Minute)
	}
}
