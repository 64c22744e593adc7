package feedback

import (
	"sync"
	"time"

	"talentrank/internal/types"
)

// historyCache is a TTL cache for feedback lookups. It caches negative
// results too: a stored nil history means "we asked, the candidate has no
// interviews", which is worth remembering as much as a hit.
type historyCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	history   *types.FeedbackHistory
	expiresAt time.Time
}

// newHistoryCache returns a cache with the given TTL. A TTL of zero or less
// disables caching entirely.
func newHistoryCache(ttl time.Duration) *historyCache {
	return &historyCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *historyCache) enabled() bool {
	return c.ttl > 0
}

// get returns the cached history and whether a live entry was found. The
// history may be nil even when found is true (negative entry).
func (c *historyCache) get(key string) (*types.FeedbackHistory, bool) {
	if !c.enabled() {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.history, true
}

func (c *historyCache) set(key string, history *types.FeedbackHistory) {
	if !c.enabled() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		history:   history,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *historyCache) invalidate(keys ...string) {
	if !c.enabled() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.entries, key)
	}
}

func (c *historyCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
