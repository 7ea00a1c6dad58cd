// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package cache

import (
	"context"
	"time"
)

// GetCached implements cache-aside: it returns the cached value for key when
// present, otherwise calls fetch, stores the result for ttl and returns it.
// Only fetch errors are returned; cache failures fall through to fetch.
//
//	job, err := cache.GetCached(ctx, m, cache.Key(cache.NSJobDetail, id), cache.TTLMedium,
//	    func(ctx context.Context) (*Job, error) { return repo.JobDetail(ctx, id) })
func GetCached[T any](ctx context.Context, m *Manager, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var cached T
	if m.Get(ctx, key, &cached) {
		return cached, nil
	}

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	m.Set(ctx, key, value, ttl)
	return value, nil
}
