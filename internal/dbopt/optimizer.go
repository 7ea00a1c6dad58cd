// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package dbopt

import (
	"context"
	"strconv"
	"time"

	"github.com/tomtom215/gigmarket/internal/cache"
	"github.com/tomtom215/gigmarket/internal/perf"
)

// Optimizer fronts a Repository with cache-aside reads. Every miss is timed
// as a database query.
type Optimizer struct {
	repo    Repository
	cache   *cache.Manager
	tracker *perf.Tracker
}

// NewOptimizer creates an Optimizer. tracker may be nil.
func NewOptimizer(repo Repository, c *cache.Manager, tracker *perf.Tracker) *Optimizer {
	return &Optimizer{repo: repo, cache: c, tracker: tracker}
}

func cachedQuery[T any](ctx context.Context, o *Optimizer, key, name string, fn func(context.Context) (T, error)) (T, error) {
	return cache.GetCached(ctx, o.cache, key, ttlFor(name), func(ctx context.Context) (T, error) {
		return perf.TrackDBQuery(o.tracker, name, func() (T, error) {
			return fn(ctx)
		})
	})
}

// Query names, also used as perf metric names.
const (
	QueryUserProfile         = "user_profile"
	QueryJobDetail           = "job_detail"
	QueryListJobs            = "list_jobs"
	QuerySearchFreelancers   = "search_freelancers"
	QueryTrendingJobs        = "trending_jobs"
	QueryFeaturedFreelancers = "featured_freelancers"
)

// ttlFor picks the cache lifetime by how volatile the data is.
func ttlFor(name string) time.Duration {
	switch name {
	case QueryListJobs, QuerySearchFreelancers:
		return cache.TTLShort
	case QueryTrendingJobs, QueryFeaturedFreelancers:
		return cache.TTLLong
	default:
		return cache.TTLMedium
	}
}

func (o *Optimizer) UserProfile(ctx context.Context, id string) (UserProfile, error) {
	return cachedQuery(ctx, o, cache.Key(cache.NSUserProfile, id), QueryUserProfile,
		func(ctx context.Context) (UserProfile, error) { return o.repo.UserProfile(ctx, id) })
}

func (o *Optimizer) JobDetail(ctx context.Context, id string) (Job, error) {
	return cachedQuery(ctx, o, cache.Key(cache.NSJobDetail, id), QueryJobDetail,
		func(ctx context.Context) (Job, error) { return o.repo.JobDetail(ctx, id) })
}

func (o *Optimizer) ListJobs(ctx context.Context, f JobFilter) (JobPage, error) {
	f.Page = f.Page.Normalize()
	return cachedQuery(ctx, o, cache.GenerateKey(cache.NSJobList, f), QueryListJobs,
		func(ctx context.Context) (JobPage, error) { return o.repo.ListJobs(ctx, f) })
}

func (o *Optimizer) SearchFreelancers(ctx context.Context, q FreelancerQuery) ([]UserProfile, error) {
	q.Page = q.Page.Normalize()
	return cachedQuery(ctx, o, cache.GenerateKey(cache.NSFreelancerSearch, q), QuerySearchFreelancers,
		func(ctx context.Context) ([]UserProfile, error) { return o.repo.SearchFreelancers(ctx, q) })
}

func (o *Optimizer) TrendingJobs(ctx context.Context, limit int) ([]Job, error) {
	limit = Page{Limit: limit}.Normalize().Limit
	return cachedQuery(ctx, o, cache.Key(cache.NSJobTrending, strconv.Itoa(limit)), QueryTrendingJobs,
		func(ctx context.Context) ([]Job, error) { return o.repo.TrendingJobs(ctx, limit) })
}

func (o *Optimizer) FeaturedFreelancers(ctx context.Context, limit int) ([]UserProfile, error) {
	limit = Page{Limit: limit}.Normalize().Limit
	return cachedQuery(ctx, o, cache.Key(cache.NSFreelancerTop, strconv.Itoa(limit)), QueryFeaturedFreelancers,
		func(ctx context.Context) ([]UserProfile, error) { return o.repo.FeaturedFreelancers(ctx, limit) })
}
