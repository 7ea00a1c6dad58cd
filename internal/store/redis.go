// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/gigmarket/internal/logging"
	"github.com/tomtom215/gigmarket/internal/metrics"
)

// RedisOptions tunes the Redis backend.
type RedisOptions struct {
	// OpTimeout bounds each store call. Default: 2s.
	OpTimeout time.Duration
	// FailureThreshold is the number of consecutive failures that opens the breaker. Default: 5.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing. Default: 15s.
	OpenTimeout time.Duration
	// ScanCount is the COUNT hint used while scanning for Keys. Default: 200.
	ScanCount int64
}

func (o *RedisOptions) applyDefaults() {
	if o.OpTimeout <= 0 {
		o.OpTimeout = 2 * time.Second
	}
	if o.FailureThreshold == 0 {
		o.FailureThreshold = 5
	}
	if o.OpenTimeout <= 0 {
		o.OpenTimeout = 15 * time.Second
	}
	if o.ScanCount <= 0 {
		o.ScanCount = 200
	}
}

// incrWithExpiry creates the counter with its TTL in one round trip so a
// crash between INCR and PEXPIRE cannot leave an immortal counter.
var incrWithExpiry = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// RedisStore is the shared Store backed by Redis. Every call goes through a
// circuit breaker so an outage fails fast instead of stacking timeouts on
// each request.
type RedisStore struct {
	client *redis.Client
	cb     *gobreaker.CircuitBreaker[any]
	opts   RedisOptions
}

// NewRedisStore connects to a redis:// URL or a plain host:port address.
// The connection is lazy; call Ping to verify it.
func NewRedisStore(addr string, opts RedisOptions) (*RedisStore, error) {
	var redisOpts *redis.Options
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		redisOpts = parsed
	} else {
		redisOpts = &redis.Options{Addr: addr}
	}
	return NewRedisStoreFromClient(redis.NewClient(redisOpts), opts), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, opts RedisOptions) *RedisStore {
	opts.applyDefaults()

	s := &RedisStore{client: client, opts: opts}
	s.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "redis-store",
		MaxRequests: 1,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrWrongType)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.StoreCircuitState.Set(float64(to))
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Shared store circuit breaker state changed")
		},
	})
	return s
}

// Backend implements Store.
func (s *RedisStore) Backend() string { return "redis" }

// Client exposes the underlying client for integration tests.
func (s *RedisStore) Client() *redis.Client { return s.client }

// do runs fn with a per-call timeout inside the circuit breaker.
func do[T any](ctx context.Context, s *RedisStore, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("redis", op, time.Since(start)) }()

	result, err := s.cb.Execute(func() (any, error) {
		opCtx, cancel := context.WithTimeout(ctx, s.opts.OpTimeout)
		defer cancel()
		v, err := fn(opCtx)
		return v, translate(err)
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
		}
		return zero, fmt.Errorf("redis %s: %w", op, err)
	}
	v, _ := result.(T)
	return v, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.Nil):
		return ErrNotFound
	case strings.HasPrefix(err.Error(), "WRONGTYPE"):
		return ErrWrongType
	default:
		return err
	}
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	return do(ctx, s, "get", func(ctx context.Context) (string, error) {
		return s.client.Get(ctx, key).Result()
	})
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	_, err := do(ctx, s, "set", func(ctx context.Context) (string, error) {
		return s.client.Set(ctx, key, value, ttl).Result()
	})
	return err
}

// Del implements Store.
func (s *RedisStore) Del(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	return do(ctx, s, "del", func(ctx context.Context) (int64, error) {
		return s.client.Del(ctx, keys...).Result()
	})
}

// Keys implements Store using SCAN with MATCH so large keyspaces never block the server.
func (s *RedisStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	return do(ctx, s, "scan", func(ctx context.Context) ([]string, error) {
		keys := make([]string, 0)
		iter := s.client.Scan(ctx, 0, pattern, s.opts.ScanCount).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		return keys, iter.Err()
	})
}

// Exists implements Store.
func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := do(ctx, s, "exists", func(ctx context.Context) (int64, error) {
		return s.client.Exists(ctx, key).Result()
	})
	return n > 0, err
}

// TTL implements Store.
func (s *RedisStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := do(ctx, s, "ttl", func(ctx context.Context) (time.Duration, error) {
		return s.client.PTTL(ctx, key).Result()
	})
	if err != nil {
		return 0, err
	}
	// go-redis reports -2 for a missing key and -1 for no expiry.
	switch d {
	case -2, -2 * time.Millisecond:
		return 0, ErrNotFound
	case -1, -1 * time.Millisecond:
		return NoExpiry, nil
	}
	return d, nil
}

// Expire implements Store.
func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		n, err := s.Del(ctx, key)
		return n > 0, err
	}
	return do(ctx, s, "expire", func(ctx context.Context) (bool, error) {
		return s.client.PExpire(ctx, key, ttl).Result()
	})
}

// IncrWithExpiry implements Store.
func (s *RedisStore) IncrWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	return do(ctx, s, "incr", func(ctx context.Context) (int64, error) {
		return incrWithExpiry.Run(ctx, s.client, []string{key}, ttl.Milliseconds()).Int64()
	})
}

// LPush implements Store.
func (s *RedisStore) LPush(ctx context.Context, key string, values ...string) (int64, error) {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return do(ctx, s, "lpush", func(ctx context.Context) (int64, error) {
		return s.client.LPush(ctx, key, args...).Result()
	})
}

// LTrim implements Store.
func (s *RedisStore) LTrim(ctx context.Context, key string, start, stop int64) error {
	_, err := do(ctx, s, "ltrim", func(ctx context.Context) (string, error) {
		return s.client.LTrim(ctx, key, start, stop).Result()
	})
	return err
}

// LRange implements Store.
func (s *RedisStore) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return do(ctx, s, "lrange", func(ctx context.Context) ([]string, error) {
		return s.client.LRange(ctx, key, start, stop).Result()
	})
}

// LRem implements Store.
func (s *RedisStore) LRem(ctx context.Context, key string, count int64, value string) (int64, error) {
	return do(ctx, s, "lrem", func(ctx context.Context) (int64, error) {
		return s.client.LRem(ctx, key, count, value).Result()
	})
}

// Ping implements Store.
func (s *RedisStore) Ping(ctx context.Context) error {
	_, err := do(ctx, s, "ping", func(ctx context.Context) (string, error) {
		return s.client.Ping(ctx).Result()
	})
	return err
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
