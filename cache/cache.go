package cache

import (
	"strings"
	"sync"
	"time"
)

// DefaultNamespace is the namespace used when none is given.
const DefaultNamespace = "default"

// entry is the typed envelope stored per key.
type entry struct {
	data     any
	storedAt time.Time
	ttl      time.Duration
}

// Cache is an in-memory, namespace-partitioned TTL cache.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Freshness: a value is visible only while now-storedAt < ttl. An
//   expired entry is deleted on the read that finds it; a stale value
//   is never returned.
// - Bounds: none. See the package comment.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// New creates a cache whose entries default to ttl. A non-positive ttl
// means DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Set stores data under the default namespace with the cache's TTL.
func (c *Cache) Set(key string, data any) {
	c.SetNS(DefaultNamespace, key, data, 0)
}

// SetNS stores data under namespace:key. A non-positive ttl takes the
// cache default.
func (c *Cache) SetNS(namespace, key string, data any, ttl time.Duration) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	c.entries[namespace+":"+key] = entry{data: data, storedAt: c.now(), ttl: ttl}
	c.mu.Unlock()
}

// Get retrieves data under the default namespace.
func (c *Cache) Get(key string) (any, bool) {
	return c.GetNS(DefaultNamespace, key)
}

// GetNS retrieves data under namespace:key. Expired entries are
// removed and reported as absent.
func (c *Cache) GetNS(namespace, key string) (any, bool) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	full := namespace + ":" + key

	c.mu.RLock()
	e, ok := c.entries[full]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if c.now().Sub(e.storedAt) >= e.ttl {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// refreshed the entry.
		if cur, still := c.entries[full]; still && c.now().Sub(cur.storedAt) >= cur.ttl {
			delete(c.entries, full)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.data, true
}

// Clear removes entries. With no arguments the whole cache is cleared;
// with namespaces given, only keys under those namespaces go.
func (c *Cache) Clear(namespaces ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(namespaces) == 0 {
		c.entries = make(map[string]entry)
		return
	}

	for _, ns := range namespaces {
		prefix := ns + ":"
		for k := range c.entries {
			if strings.HasPrefix(k, prefix) {
				delete(c.entries, k)
			}
		}
	}
}

// Len reports the number of live-or-expired entries currently held.
// Expired entries count until a read evicts them; useful for tests and
// diagnostics.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetAs retrieves a value and asserts it to T. A present value of the
// wrong type is treated as a miss.
func GetAs[T any](c *Cache, namespace, key string) (T, bool) {
	var zero T
	v, ok := c.GetNS(namespace, key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
