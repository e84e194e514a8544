// Package cache provides a TTL + LRU memoizing cache for expensive external
// lookups (ML scores, domain-usage checks, block-history queries).
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key builds a cache key from a subject id and a model/check identifier.
func Key(subject string, kind string) string {
	return subject + "|" + kind
}

type entry[V any] struct {
	value      V
	fetchedAt  time.Time
	lastAccess time.Time
}

// Cache is a thread-safe memoizing cache with a time-to-live per entry and
// least-recently-used eviction under a size cap. Concurrent fetches for the
// same key are collapsed into a single outbound call.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]*entry[V]
	ttl     time.Duration
	maxSize int
	group   singleflight.Group
}

// New creates a cache. A ttl of 0 disables expiry; maxSize <= 0 falls back
// to 1000 entries.
func New[V any](ttl time.Duration, maxSize int) *Cache[V] {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &Cache[V]{
		entries: make(map[string]*entry[V]),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a fresh value from the cache.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, exists := c.entries[key]
	if !exists {
		return zero, false
	}
	if c.expired(e) {
		// Leave removal to Cleanup.
		return zero, false
	}
	e.lastAccess = time.Now()
	return e.value, true
}

// Set stores a value, evicting the least recently used entry if the cache
// is full.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictLRU()
	}

	now := time.Now()
	c.entries[key] = &entry[V]{value: value, fetchedAt: now, lastAccess: now}
}

// GetOrFetch returns the cached value for key, or runs fetch to populate it.
// Concurrent callers for the same key share one fetch; fetch errors are not
// cached.
func (c *Cache[V]) GetOrFetch(ctx context.Context, key string, fetch func(ctx context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under the flight: another caller may have filled it.
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := fetch(ctx)
		if err != nil {
			return v, err
		}
		c.Set(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return result.(V), nil
}

// Invalidate drops a single entry.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Cleanup removes expired entries.
func (c *Cache[V]) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, key)
		}
	}
}

// StartCleanup runs Cleanup on a ticker until the context is cancelled.
func (c *Cache[V]) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// expired must be called with the lock held.
func (c *Cache[V]) expired(e *entry[V]) bool {
	return c.ttl > 0 && time.Since(e.fetchedAt) > c.ttl
}

// evictLRU must be called with the write lock held.
func (c *Cache[V]) evictLRU() {
	var oldestKey string
	var oldestTime time.Time

	for key, e := range c.entries {
		if oldestKey == "" || e.lastAccess.Before(oldestTime) {
			oldestKey = key
			oldestTime = e.lastAccess
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
