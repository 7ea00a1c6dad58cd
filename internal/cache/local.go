// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package cache

import (
	"sync"
	"time"
)

type localEntry[V any] struct {
	key       string
	value     V
	prev      *localEntry[V]
	next      *localEntry[V]
	expiresAt time.Time
}

// Local is a thread-safe, bounded, process-local LRU cache with TTL.
// It never touches the shared store; the session resolver uses it to avoid
// re-verifying the same token on every request.
//
// Entries are kept on a doubly-linked list (head.next is the most recently
// used) with a map for O(1) lookup.
type Local[V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time
	items    map[string]*localEntry[V]
	head     *localEntry[V]
	tail     *localEntry[V]
	hits     int64
	misses   int64
}

// NewLocal creates a local cache with the given capacity and TTL.
func NewLocal[V any](capacity int, ttl time.Duration) *Local[V] {
	return NewLocalWithClock[V](capacity, ttl, time.Now)
}

// NewLocalWithClock creates a local cache with an injectable clock.
func NewLocalWithClock[V any](capacity int, ttl time.Duration, now func() time.Time) *Local[V] {
	if capacity <= 0 {
		capacity = 10000
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	c := &Local[V]{
		capacity: capacity,
		ttl:      ttl,
		now:      now,
		items:    make(map[string]*localEntry[V], capacity),
		head:     &localEntry[V]{},
		tail:     &localEntry[V]{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Get returns the value for key if present and not expired.
func (c *Local[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	entry, ok := c.items[key]
	if !ok {
		c.misses++
		return zero, false
	}
	if !c.now().Before(entry.expiresAt) {
		c.removeEntry(entry)
		c.misses++
		return zero, false
	}

	c.moveToFront(entry)
	c.hits++
	return entry.value, true
}

// Set stores value with the default TTL.
func (c *Local[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value, capping the lifetime at ttl. The least recently
// used entry is evicted when capacity is exceeded.
func (c *Local[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	if ttl <= 0 || ttl > c.ttl {
		ttl = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(ttl)
	if entry, ok := c.items[key]; ok {
		entry.value = value
		entry.expiresAt = expiresAt
		c.moveToFront(entry)
		return
	}

	entry := &localEntry[V]{key: key, value: value, expiresAt: expiresAt}
	c.addToFront(entry)
	c.items[key] = entry

	for len(c.items) > c.capacity {
		c.evictOldest()
	}
}

// Delete removes key and reports whether it was present.
func (c *Local[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[key]; ok {
		c.removeEntry(entry)
		return true
	}
	return false
}

// CleanupExpired removes expired entries and returns how many were removed.
func (c *Local[V]) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for entry := c.tail.prev; entry != c.head; {
		prev := entry.prev
		if !now.Before(entry.expiresAt) {
			c.removeEntry(entry)
			removed++
		}
		entry = prev
	}
	return removed
}

// Len returns the current number of entries.
func (c *Local[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns hit/miss counts and the current size.
func (c *Local[V]) Stats() (hits, misses int64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, len(c.items)
}

// Internal methods (must be called with lock held)

func (c *Local[V]) addToFront(entry *localEntry[V]) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

func (c *Local[V]) moveToFront(entry *localEntry[V]) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	c.addToFront(entry)
}

func (c *Local[V]) removeEntry(entry *localEntry[V]) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	delete(c.items, entry.key)
}

func (c *Local[V]) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return
	}
	c.removeEntry(oldest)
}
