package schaledb

import (
	"sync"
	"time"
)

// cacheEntry pairs a stored value with the time it was stored. Entries are
// immutable once written; a refresh always replaces the whole entry.
type cacheEntry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache is a TTL-bounded key-value store. Keys are opaque strings (the
// fetcher uses "{language}/{endpoint}"). There is no size bound and no
// background sweeper: the only eviction pressure is time, and stale entries
// are deleted lazily on the Get that observes them.
//
// All methods are safe for concurrent use. A single mutex guards the backing
// map; no compound operation spans more than one map access, so finer-grained
// locking would buy nothing.
type Cache[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry[V]

	// now is replaceable in tests to drive expiry without sleeping.
	now func() time.Time
}

// NewCache returns an empty cache whose entries expire ttl after they are
// stored.
func NewCache[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		ttl:     ttl,
		entries: make(map[string]cacheEntry[V]),
		now:     time.Now,
	}
}

// Set stores value under key with the current timestamp, replacing any prior
// entry.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[V]{value: value, storedAt: c.now()}
}

// Get returns the value stored under key if it is present and younger than
// the TTL. An expired entry is treated as a miss and deleted as a side
// effect.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, present := c.entries[key]
	if !present {
		var zero V
		return zero, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry[V])
}

// Len reports the number of entries currently stored, including entries that
// have expired but not yet been observed by a Get.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
