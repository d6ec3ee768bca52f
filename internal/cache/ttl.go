// Package cache provides a small in-process TTL cache. It is intentionally
// unbounded: entries expire by age only, checked lazily on access.
package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// TTL is a concurrency-safe map cache with per-cache time-to-live.
// The clock is injected so expiry is testable without sleeping.
type TTL[V any] struct {
	clock clockwork.Clock
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[string]entry[V]
}

// NewTTL creates a TTL cache. Construct once per process and pass by
// reference; do not use as a module-level singleton.
func NewTTL[V any](ttl time.Duration, clock clockwork.Clock) *TTL[V] {
	return &TTL[V]{
		clock:   clock,
		ttl:     ttl,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the cached value for key if present and not expired.
// Expired entries are removed on access.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}

	if c.clock.Since(e.storedAt) >= c.ttl {
		c.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have refreshed it.
		if cur, still := c.entries[key]; still && c.clock.Since(cur.storedAt) >= c.ttl {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false
	}

	return e.value, true
}

// Set stores value under key, resetting its age.
func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, storedAt: c.clock.Now()}
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (c *TTL[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
