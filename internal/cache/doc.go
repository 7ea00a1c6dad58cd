// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

/*
Package cache provides the read-path cache over the shared store and a small
process-local LRU used for session lookups.

# Manager

Manager stores JSON-encoded values in a store.Store (Redis or the in-process
backend, selected at startup). The data path never fails: a backend error on
Get is a miss, on Set or Del a no-op, and each one is logged and counted in
gigmarket_cache_errors_total. HealthCheck is the only method that returns the
backend error.

	m := cache.NewManager(s, time.Hour)
	m.Set(ctx, cache.Key(cache.NSJobDetail, id), job, cache.TTLMedium)

	var job Job
	if m.Get(ctx, cache.Key(cache.NSJobDetail, id), &job) {
	    // hit
	}

# Cache-aside

GetCached wraps a fetch function. Fetch errors are returned; cache errors are not.

	jobs, err := cache.GetCached(ctx, m, cache.GenerateKey(cache.NSJobList, filters), cache.TTLShort,
	    func(ctx context.Context) ([]Job, error) { return repo.ListJobs(ctx, filters) })

# Invalidation

Invalidation is explicit. Handlers that mutate data call InvalidateUser,
InvalidateJob, InvalidateJobListings, InvalidateFreelancerSearch or
InvalidatePattern after the write commits.

# TTL tiers

	TTLShort   60s  listings and search results
	TTLMedium  5m   single entities
	TTLLong    30m  trending and featured lists
	TTLDay     24h

# Local

Local[V] is a bounded LRU with per-entry TTL. It is not shared between
processes and is only used where a stale read is harmless.
*/
package cache
