package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
)

// DefaultCacheCapacity bounds the number of memoized operation results.
const DefaultCacheCapacity = 100

// ResultCache memoizes encoded operation outputs keyed by a digest of the
// operation and its parameters. When full, the oldest inserted entry is
// evicted. Updating an existing key keeps its original age.
//
// ResultCache is safe for concurrent use.
type ResultCache struct {
	mu    sync.Mutex
	cap   int
	order []string
	items map[string][]byte
}

// NewResultCache creates a cache holding at most capacity entries. A
// capacity of zero or less disables caching entirely.
func NewResultCache(capacity int) *ResultCache {
	return &ResultCache{
		cap:   capacity,
		items: make(map[string][]byte),
	}
}

// Key digests the given parts into a stable cache key.
func Key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached value for key, if present.
func (c *ResultCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

// Put stores value under key, evicting the oldest entry when the cache is
// full.
func (c *ResultCache) Put(key string, value []byte) {
	if c.cap <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[key]; ok {
		c.items[key] = value
		return
	}
	if len(c.order) >= c.cap {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.items, oldest)
	}
	c.order = append(c.order, key)
	c.items[key] = value
}

// Len reports the number of cached entries.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
