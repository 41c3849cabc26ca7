package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// ReportCache keeps one computed value per user for a fixed TTL. Writers that
// change a user's data call Invalidate so readers never see a stale report
// beyond the current request.
type ReportCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V] // map[userID]entry
	gens    map[string]uint64   // bumped by Invalidate
	ttl     time.Duration
	now     func() time.Time
}

func NewReportCache[V any](ttl time.Duration) *ReportCache[V] {
	return &ReportCache[V]{
		entries: make(map[string]entry[V]),
		gens:    make(map[string]uint64),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock replaces the cache's time source.
func (c *ReportCache[V]) WithClock(now func() time.Time) *ReportCache[V] {
	c.now = now
	return c
}

// Get returns the cached value for key if it has not expired.
func (c *ReportCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.storedAt) >= c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *ReportCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, storedAt: c.now()}
}

// Generation returns the invalidation counter for key. Read it before
// computing a value and hand it to SetIfCurrent.
func (c *ReportCache[V]) Generation(key string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[key]
}

// SetIfCurrent stores value only if key has not been invalidated since gen
// was read. It reports whether the value was stored.
func (c *ReportCache[V]) SetIfCurrent(key string, gen uint64, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[key] != gen {
		return false
	}
	c.entries[key] = entry[V]{value: value, storedAt: c.now()}
	return true
}

// Invalidate drops the entries for the given keys.
func (c *ReportCache[V]) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
		c.gens[k]++
	}
}

// Prune removes expired entries and returns how many were dropped.
func (c *ReportCache[V]) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.storedAt) >= c.ttl {
			delete(c.entries, k)
			dropped++
		}
	}
	return dropped
}

// Stats returns statistics about the current cache.
func (c *ReportCache[V]) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"entries":     len(c.entries),
		"ttl_seconds": int(c.ttl.Seconds()),
	}
}
