// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package cache

import "context"

// Invalidation is explicit: the write path calls these after a successful
// mutation. Nothing in Manager invalidates on its own.

// InvalidateUser drops the cached profile of a user and any freelancer
// search or featured list that may embed it.
func (m *Manager) InvalidateUser(ctx context.Context, userID string) int64 {
	n := m.Del(ctx, Key(NSUserProfile, userID))
	n += m.InvalidateFreelancerSearch(ctx)
	n += m.DelPattern(ctx, Key(NSFreelancerTop, "*"))
	return n
}

// InvalidateJob drops a job's detail entry and every listing it can appear in.
func (m *Manager) InvalidateJob(ctx context.Context, jobID string) int64 {
	n := m.Del(ctx, Key(NSJobDetail, jobID))
	n += m.InvalidateJobListings(ctx)
	return n
}

// InvalidateJobListings drops all paginated and trending job lists.
func (m *Manager) InvalidateJobListings(ctx context.Context) int64 {
	n := m.DelPattern(ctx, Key(NSJobList, "*"))
	n += m.DelPattern(ctx, Key(NSJobTrending, "*"))
	return n
}

// InvalidateFreelancerSearch drops all cached freelancer search results.
func (m *Manager) InvalidateFreelancerSearch(ctx context.Context) int64 {
	return m.DelPattern(ctx, Key(NSFreelancerSearch, "*"))
}

// InvalidatePattern drops every key matching pattern.
func (m *Manager) InvalidatePattern(ctx context.Context, pattern string) int64 {
	n := m.DelPattern(ctx, pattern)
	m.log.Debug().Str("pattern", pattern).Int64("removed", n).Msg("Cache invalidated")
	return n
}
