// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"
)

// memoryEntry holds either a string value or a list, never both.
type memoryEntry struct {
	value     string
	list      []string
	isList    bool
	expiresAt time.Time // zero means no expiry
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryStore is the in-process Store used when no shared backend is
// configured. Expired entries are purged lazily on access and by Sweep.
//
// It is only shared within one process, so multiple replicas each enforce
// their own rate limits.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an in-process store using the wall clock.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock creates an in-process store with an injectable clock.
//
//	clock := &fakeClock{t: time.Unix(1700000000, 0)}
//	s := store.NewMemoryStoreWithClock(clock.Now)
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     now,
	}
}

// Backend implements Store.
func (s *MemoryStore) Backend() string { return "memory" }

// live returns the entry for key, purging it if expired. Caller must hold mu for writing.
func (s *MemoryStore) live(key string) *memoryEntry {
	e, ok := s.entries[key]
	if !ok {
		return nil
	}
	if e.expired(s.now()) {
		delete(s.entries, key)
		return nil
	}
	return e
}

func (s *MemoryStore) expiryFor(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(ttl)
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(key)
	if e == nil {
		return "", ErrNotFound
	}
	if e.isList {
		return "", ErrWrongType
	}
	return e.value, nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = &memoryEntry{value: value, expiresAt: s.expiryFor(ttl)}
	return nil
}

// Del implements Store.
func (s *MemoryStore) Del(_ context.Context, keys ...string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for _, key := range keys {
		if s.live(key) != nil {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Keys implements Store. Results are sorted for deterministic iteration.
func (s *MemoryStore) Keys(_ context.Context, pattern string) ([]string, error) {
	re, err := GlobToRegexp(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid key pattern %q: %w", pattern, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0)
	for key := range s.entries {
		if s.live(key) == nil {
			continue
		}
		if re.MatchString(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Exists implements Store.
func (s *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live(key) != nil, nil
}

// TTL implements Store.
func (s *MemoryStore) TTL(_ context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(key)
	if e == nil {
		return 0, ErrNotFound
	}
	if e.expiresAt.IsZero() {
		return NoExpiry, nil
	}
	return e.expiresAt.Sub(s.now()), nil
}

// Expire implements Store. A ttl <= 0 deletes the key, matching Redis.
func (s *MemoryStore) Expire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(key)
	if e == nil {
		return false, nil
	}
	if ttl <= 0 {
		delete(s.entries, key)
		return true, nil
	}
	e.expiresAt = s.now().Add(ttl)
	return true, nil
}

// IncrWithExpiry implements Store.
func (s *MemoryStore) IncrWithExpiry(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(key)
	if e == nil {
		s.entries[key] = &memoryEntry{value: "1", expiresAt: s.expiryFor(ttl)}
		return 1, nil
	}
	if e.isList {
		return 0, ErrWrongType
	}

	n, err := strconv.ParseInt(e.value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("value at %q is not an integer: %w", key, err)
	}
	n++
	e.value = strconv.FormatInt(n, 10)
	return n, nil
}

// LPush implements Store. Values are prepended in argument order, so the
// last value ends up at the head.
func (s *MemoryStore) LPush(_ context.Context, key string, values ...string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(key)
	if e == nil {
		e = &memoryEntry{isList: true}
		s.entries[key] = e
	}
	if !e.isList {
		return 0, ErrWrongType
	}

	head := make([]string, len(values), len(values)+len(e.list))
	for i, v := range values {
		head[len(values)-1-i] = v
	}
	e.list = append(head, e.list...)
	return int64(len(e.list)), nil
}

// listBounds normalizes Redis-style inclusive indexes (negative counts from the end).
func listBounds(n int, start, stop int64) (int, int, bool) {
	size := int64(n)
	if start < 0 {
		start += size
	}
	if stop < 0 {
		stop += size
	}
	if start < 0 {
		start = 0
	}
	if stop >= size {
		stop = size - 1
	}
	if start > stop || start >= size {
		return 0, 0, false
	}
	return int(start), int(stop), true
}

// LTrim implements Store.
func (s *MemoryStore) LTrim(_ context.Context, key string, start, stop int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(key)
	if e == nil {
		return nil
	}
	if !e.isList {
		return ErrWrongType
	}

	lo, hi, ok := listBounds(len(e.list), start, stop)
	if !ok {
		delete(s.entries, key)
		return nil
	}
	e.list = append([]string(nil), e.list[lo:hi+1]...)
	return nil
}

// LRange implements Store.
func (s *MemoryStore) LRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(key)
	if e == nil {
		return []string{}, nil
	}
	if !e.isList {
		return nil, ErrWrongType
	}

	lo, hi, ok := listBounds(len(e.list), start, stop)
	if !ok {
		return []string{}, nil
	}
	return append([]string(nil), e.list[lo:hi+1]...), nil
}

// LRem implements Store. count > 0 removes from the head, count < 0 from
// the tail, count == 0 removes every occurrence.
func (s *MemoryStore) LRem(_ context.Context, key string, count int64, value string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(key)
	if e == nil {
		return 0, nil
	}
	if !e.isList {
		return 0, ErrWrongType
	}

	limit := count
	if limit < 0 {
		limit = -limit
	}

	var removed int64
	keep := make([]bool, len(e.list))
	for i := range keep {
		keep[i] = true
	}
	visit := func(i int) {
		if e.list[i] == value && (limit == 0 || removed < limit) {
			keep[i] = false
			removed++
		}
	}
	if count < 0 {
		for i := len(e.list) - 1; i >= 0; i-- {
			visit(i)
		}
	} else {
		for i := range e.list {
			visit(i)
		}
	}

	filtered := e.list[:0]
	for i, v := range e.list {
		if keep[i] {
			filtered = append(filtered, v)
		}
	}
	e.list = filtered
	if len(e.list) == 0 {
		delete(s.entries, key)
	}
	return removed, nil
}

// Ping implements Store.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

// Sweep purges every expired entry and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries, including any not yet swept.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
