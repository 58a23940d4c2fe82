// Package ttlcache is a small thread-safe map whose entries go stale after a
// fixed lifetime. Stale entries are kept until overwritten or deleted so a
// caller can fall back to them when the fresh source is unavailable.
package ttlcache

import (
	"sync"
	"time"
)

// Entry is a cached value with its expiry.
type Entry[V any] struct {
	Value     V
	ExpiresAt time.Time
}

// Cache maps K to V with a single TTL.
type Cache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]Entry[V]
	ttl     time.Duration
	now     func() time.Time
}

// New creates a cache whose entries are fresh for ttl.
func New[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]Entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (c *Cache[K, V]) WithClock(now func() time.Time) *Cache[K, V] {
	c.now = now
	return c
}

// Get returns the value for key if present and not expired.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.ExpiresAt) {
		var zero V
		return zero, false
	}
	return e.Value, true
}

// GetStale returns the value for key regardless of expiry.
func (c *Cache[K, V]) GetStale(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	return e.Value, ok
}

// Put stores value for key, fresh for the cache TTL.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	c.entries[key] = Entry[V]{Value: value, ExpiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// IsExpired reports whether key is absent or past its expiry.
func (c *Cache[K, V]) IsExpired(key K) bool {
	_, ok := c.Get(key)
	return !ok
}

func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len counts entries, stale ones included.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge drops every expired entry.
func (c *Cache[K, V]) Purge() {
	now := c.now()
	c.mu.Lock()
	for k, e := range c.entries {
		if !now.Before(e.ExpiresAt) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}
