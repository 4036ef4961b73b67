// Package cache provides a small keyed TTL cache. It is an optimization
// only: every user is constructed in main with an explicit TTL and clock
// and passed by reference, never reached through package state, and a nil
// *TTL is accepted everywhere and behaves as a cache that never hits.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value      interface{}
	insertedAt time.Time
}

// TTL is a process-lifetime keyed cache with a fixed time to live.
type TTL struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

// New returns a cache whose entries expire ttl after insertion. A nil now
// defaults to time.Now; tests inject a fake clock.
func New(ttl time.Duration, now func() time.Time) *TTL {
	if now == nil {
		now = time.Now
	}
	return &TTL{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry),
	}
}

// Get returns the cached value for key, expiring lazily on lookup.
func (c *TTL) Get(key string) (interface{}, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.now().Sub(e.insertedAt) > c.ttl {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// refreshed the entry.
		if e2, ok := c.entries[key]; ok && c.now().Sub(e2.insertedAt) > c.ttl {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, restarting its TTL.
func (c *TTL) Set(key string, value interface{}) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries[key] = entry{value: value, insertedAt: c.now()}
	c.mu.Unlock()
}

// Invalidate drops one key, used after writes that stale the cached read.
func (c *TTL) Invalidate(key string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Sweep removes every expired entry and reports how many were dropped.
// Intended to be called from a fixed-interval ticker.
func (c *TTL) Sweep() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	cutoff := c.now()
	for key, e := range c.entries {
		if cutoff.Sub(e.insertedAt) > c.ttl {
			delete(c.entries, key)
			dropped++
		}
	}
	return dropped
}

// Len reports the current entry count, expired or not.
func (c *TTL) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
