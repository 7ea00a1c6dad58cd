// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/gigmarket/internal/logging"
	"github.com/tomtom215/gigmarket/internal/metrics"
	"github.com/tomtom215/gigmarket/internal/store"
)

// DefaultTTL is used by Set when the caller passes a non-positive ttl and
// the manager was built without an explicit default.
const DefaultTTL = time.Hour

// Stats holds cache performance counters.
type Stats struct {
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
	Errors  int64  `json:"errors"`
	Backend string `json:"backend"`
}

// Manager is a JSON value cache over the shared store. Backend failures on
// the read and write paths never reach the caller: a failed Get is a miss and
// a failed Set or Del is a no-op, both logged and counted.
type Manager struct {
	store      store.Store
	defaultTTL time.Duration
	log        zerolog.Logger

	hits   atomic.Int64
	misses atomic.Int64
	errors atomic.Int64
}

// NewManager creates a cache manager. A non-positive defaultTTL selects DefaultTTL.
func NewManager(s store.Store, defaultTTL time.Duration) *Manager {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Manager{
		store:      s,
		defaultTTL: defaultTTL,
		log:        logging.WithComponent("cache"),
	}
}

// Get decodes the value stored under key into dst and reports whether it
// was found. Decode failures are treated as misses and the entry is dropped.
func (m *Manager) Get(ctx context.Context, key string, dst any) bool {
	raw, err := m.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			m.fail("get", key, err)
		}
		m.miss()
		return false
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		m.fail("decode", key, err)
		_, _ = m.store.Del(ctx, key)
		m.miss()
		return false
	}

	m.hits.Add(1)
	metrics.RecordCacheLookup(true)
	return true
}

// Set stores value under key for ttl (the manager default when ttl <= 0)
// and reports whether the write succeeded.
func (m *Manager) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		m.fail("encode", key, err)
		return false
	}

	if err := m.store.Set(ctx, key, string(data), ttl); err != nil {
		m.fail("set", key, err)
		return false
	}
	return true
}

// Del removes keys and returns how many existed. Errors count as zero.
func (m *Manager) Del(ctx context.Context, keys ...string) int64 {
	if len(keys) == 0 {
		return 0
	}
	n, err := m.store.Del(ctx, keys...)
	if err != nil {
		m.fail("del", keys[0], err)
		return 0
	}
	return n
}

// DelPattern removes every key matching a glob pattern and returns how many
// were removed.
//
//	m.DelPattern(ctx, "job:list:*")
func (m *Manager) DelPattern(ctx context.Context, pattern string) int64 {
	keys, err := m.store.Keys(ctx, pattern)
	if err != nil {
		m.fail("keys", pattern, err)
		return 0
	}
	if len(keys) == 0 {
		return 0
	}
	return m.Del(ctx, keys...)
}

// Exists reports whether key is present. Errors report false.
func (m *Manager) Exists(ctx context.Context, key string) bool {
	ok, err := m.store.Exists(ctx, key)
	if err != nil {
		m.fail("exists", key, err)
		return false
	}
	return ok
}

// TTL returns the remaining lifetime of key. The second result is false when
// the key is absent or the backend failed; store.NoExpiry is returned for
// persistent keys.
func (m *Manager) TTL(ctx context.Context, key string) (time.Duration, bool) {
	ttl, err := m.store.TTL(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			m.fail("ttl", key, err)
		}
		return 0, false
	}
	return ttl, true
}

// Expire resets the lifetime of an existing key.
func (m *Manager) Expire(ctx context.Context, key string, ttl time.Duration) bool {
	ok, err := m.store.Expire(ctx, key, ttl)
	if err != nil {
		m.fail("expire", key, err)
		return false
	}
	return ok
}

// HealthCheck pings the backend. Unlike the data path it returns the error.
func (m *Manager) HealthCheck(ctx context.Context) error {
	return m.store.Ping(ctx)
}

// Stats returns a snapshot of the counters.
func (m *Manager) Stats() Stats {
	return Stats{
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
		Errors:  m.errors.Load(),
		Backend: m.store.Backend(),
	}
}

func (m *Manager) miss() {
	m.misses.Add(1)
	metrics.RecordCacheLookup(false)
}

func (m *Manager) fail(op, key string, err error) {
	m.errors.Add(1)
	metrics.RecordCacheError(op)
	m.log.Warn().Err(err).Str("operation", op).Str("key", key).Msg("Cache operation failed")
}
