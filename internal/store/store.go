// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/gigmarket/internal/config"
	"github.com/tomtom215/gigmarket/internal/logging"
)

var (
	// ErrNotFound is returned by Get and TTL when the key is absent or expired.
	ErrNotFound = errors.New("store: key not found")

	// ErrUnavailable wraps failures caused by the backend being unreachable,
	// including an open circuit breaker.
	ErrUnavailable = errors.New("store: backend unavailable")

	// ErrWrongType is returned when a list operation targets a string key or vice versa.
	ErrWrongType = errors.New("store: operation against a key holding the wrong kind of value")
)

// NoExpiry is returned by TTL for keys that exist without an expiry.
const NoExpiry time.Duration = -1

// Store is the shared key-value contract used by the cache manager, the rate
// limiter and the security monitor. Every operation is independently atomic;
// no multi-key transactions are offered.
type Store interface {
	// Get returns the string value of key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key. A ttl <= 0 stores without expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Del removes keys and returns how many existed.
	Del(ctx context.Context, keys ...string) (int64, error)
	// Keys returns every key matching a glob pattern (*, ?, [...]).
	Keys(ctx context.Context, pattern string) ([]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	// TTL returns the remaining lifetime, NoExpiry, or ErrNotFound.
	TTL(ctx context.Context, key string) (time.Duration, error)
	// Expire sets a new ttl on an existing key and reports whether it existed.
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// IncrWithExpiry atomically increments key, setting ttl when the key is created.
	IncrWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, error)

	LPush(ctx context.Context, key string, values ...string) (int64, error)
	LTrim(ctx context.Context, key string, start, stop int64) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	LRem(ctx context.Context, key string, count int64, value string) (int64, error)

	Ping(ctx context.Context) error
	// Backend names the implementation ("redis" or "memory").
	Backend() string
	Close() error
}

// Open selects the backend from configuration: Redis when a connection
// string is configured, the in-process store otherwise.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	if !cfg.UsesRedis() {
		logging.Info().Msg("REDIS_URL not set, using in-process store")
		return NewMemoryStore(), nil
	}

	s, err := NewRedisStore(cfg.RedisURL, RedisOptions{OpTimeout: cfg.OpTimeout})
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Ping(pingCtx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	logging.Info().Str("backend", s.Backend()).Msg("Shared store connected")
	return s, nil
}
