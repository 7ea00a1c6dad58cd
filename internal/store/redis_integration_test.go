// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

//go:build integration

package store_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/gigmarket/internal/store"
	"github.com/tomtom215/gigmarket/internal/testinfra"
)

func newRedisStore(t *testing.T) *store.RedisStore {
	t.Helper()
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	redis, err := testinfra.NewRedisContainer(ctx)
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}
	t.Cleanup(func() { testinfra.CleanupContainer(t, context.Background(), redis) })

	s, err := store.NewRedisStore(redis.URL, store.RedisOptions{})
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	return s
}

func TestRedisStoreContract(t *testing.T) {
	s := newRedisStore(t)
	ctx := context.Background()

	t.Run("get set ttl", func(t *testing.T) {
		if err := s.Set(ctx, "job:1", "payload", time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := s.Get(ctx, "job:1")
		if err != nil || got != "payload" {
			t.Fatalf("Get() = %q, %v", got, err)
		}
		ttl, err := s.TTL(ctx, "job:1")
		if err != nil || ttl <= 0 || ttl > time.Minute {
			t.Errorf("TTL() = %v, %v", ttl, err)
		}
		if _, err := s.Get(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
		}
		if _, err := s.TTL(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("TTL(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("scan and delete pattern", func(t *testing.T) {
		for _, k := range []string{"job:list:a", "job:list:b", "user:profile:x"} {
			_ = s.Set(ctx, k, "1", time.Minute)
		}
		keys, err := s.Keys(ctx, "job:list:*")
		if err != nil || len(keys) != 2 {
			t.Fatalf("Keys() = %v, %v", keys, err)
		}
		if n, _ := s.Del(ctx, keys...); n != 2 {
			t.Errorf("Del() = %d, want 2", n)
		}
		if ok, _ := s.Exists(ctx, "user:profile:x"); !ok {
			t.Error("user:profile:x should survive")
		}
	})

	t.Run("incr with expiry", func(t *testing.T) {
		for want := int64(1); want <= 3; want++ {
			got, err := s.IncrWithExpiry(ctx, "ratelimit:test:1", time.Minute)
			if err != nil || got != want {
				t.Fatalf("IncrWithExpiry() = %d, %v; want %d", got, err, want)
			}
		}
		ttl, _ := s.TTL(ctx, "ratelimit:test:1")
		if ttl <= 0 {
			t.Errorf("counter should carry a TTL, got %v", ttl)
		}
	})

	t.Run("lists", func(t *testing.T) {
		_, _ = s.LPush(ctx, "security:alerts", "a1", "a2", "a3")
		_ = s.LTrim(ctx, "security:alerts", 0, 1)
		got, _ := s.LRange(ctx, "security:alerts", 0, -1)
		if !reflect.DeepEqual(got, []string{"a3", "a2"}) {
			t.Errorf("LRange() = %v", got)
		}
		if n, _ := s.LRem(ctx, "security:alerts", 0, "a2"); n != 1 {
			t.Errorf("LRem() = %d, want 1", n)
		}
	})
}
