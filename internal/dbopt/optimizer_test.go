// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package dbopt

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/tomtom215/gigmarket/internal/cache"
	"github.com/tomtom215/gigmarket/internal/perf"
	"github.com/tomtom215/gigmarket/internal/store"
)

type fakeRepo struct {
	mu    sync.Mutex
	calls map[string]int
	jobs  map[string]Job
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		calls: make(map[string]int),
		jobs: map[string]Job{
			"j1": {ID: "j1", Title: "Build a landing page", Status: JobStatusOpen, Budget: 500},
		},
	}
}

func (f *fakeRepo) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeRepo) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeRepo) UserProfile(_ context.Context, id string) (UserProfile, error) {
	f.hit(QueryUserProfile)
	return UserProfile{ID: id, Name: "Ada", Role: "FREELANCER"}, nil
}

func (f *fakeRepo) JobDetail(_ context.Context, id string) (Job, error) {
	f.hit(QueryJobDetail)
	j, ok := f.jobs[id]
	if !ok {
		return Job{}, gorm.ErrRecordNotFound
	}
	return j, nil
}

func (f *fakeRepo) ListJobs(_ context.Context, flt JobFilter) (JobPage, error) {
	f.hit(QueryListJobs)
	return JobPage{Jobs: []Job{f.jobs["j1"]}, Total: 1, Page: flt.Page.Page, Limit: flt.Limit}, nil
}

func (f *fakeRepo) SearchFreelancers(_ context.Context, _ FreelancerQuery) ([]UserProfile, error) {
	f.hit(QuerySearchFreelancers)
	return []UserProfile{{ID: "u1", Name: "Ada"}}, nil
}

func (f *fakeRepo) TrendingJobs(_ context.Context, limit int) ([]Job, error) {
	f.hit(QueryTrendingJobs)
	return []Job{f.jobs["j1"]}[:min(limit, 1)], nil
}

func (f *fakeRepo) FeaturedFreelancers(_ context.Context, _ int) ([]UserProfile, error) {
	f.hit(QueryFeaturedFreelancers)
	return nil, nil
}

func newTestOptimizer() (*Optimizer, *fakeRepo, *cache.Manager, *perf.Tracker) {
	repo := newFakeRepo()
	m := cache.NewManager(store.NewMemoryStore(), cache.DefaultTTL)
	tr := perf.New(100)
	return NewOptimizer(repo, m, tr), repo, m, tr
}

func TestOptimizerCachesReads(t *testing.T) {
	ctx := context.Background()
	o, repo, _, tr := newTestOptimizer()

	for i := 0; i < 3; i++ {
		job, err := o.JobDetail(ctx, "j1")
		if err != nil {
			t.Fatalf("JobDetail: %v", err)
		}
		if job.Title != "Build a landing page" {
			t.Errorf("Title = %q", job.Title)
		}
	}
	if got := repo.count(QueryJobDetail); got != 1 {
		t.Errorf("repository calls = %d, want 1", got)
	}

	avg, ok := tr.Average("db_job_detail_duration")
	if !ok {
		t.Fatal("query timing not recorded")
	}
	if avg < 0 {
		t.Errorf("negative duration %v", avg)
	}
}

func TestOptimizerDistinctFiltersMissSeparately(t *testing.T) {
	ctx := context.Background()
	o, repo, _, _ := newTestOptimizer()

	if _, err := o.ListJobs(ctx, JobFilter{Category: "design"}); err != nil {
		t.Fatal(err)
	}
	if _, err := o.ListJobs(ctx, JobFilter{Category: "design", Page: Page{Page: 1, Limit: DefaultPageSize}}); err != nil {
		t.Fatal(err)
	}
	if got := repo.count(QueryListJobs); got != 1 {
		t.Errorf("normalized equal filters should share a key; calls = %d", got)
	}

	if _, err := o.ListJobs(ctx, JobFilter{Category: "writing"}); err != nil {
		t.Fatal(err)
	}
	if got := repo.count(QueryListJobs); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestOptimizerErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	o, repo, _, _ := newTestOptimizer()

	for i := 0; i < 2; i++ {
		_, err := o.JobDetail(ctx, "missing")
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Fatalf("err = %v, want ErrRecordNotFound", err)
		}
	}
	if got := repo.count(QueryJobDetail); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestOptimizerInvalidation(t *testing.T) {
	ctx := context.Background()
	o, repo, m, _ := newTestOptimizer()

	if _, err := o.TrendingJobs(ctx, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := o.JobDetail(ctx, "j1"); err != nil {
		t.Fatal(err)
	}
	m.InvalidateJob(ctx, "j1")

	if _, err := o.TrendingJobs(ctx, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := o.JobDetail(ctx, "j1"); err != nil {
		t.Fatal(err)
	}
	if repo.count(QueryTrendingJobs) != 2 || repo.count(QueryJobDetail) != 2 {
		t.Errorf("calls after invalidation: %v", repo.calls)
	}
}

func TestTTLFor(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{QueryListJobs, cache.TTLShort.String()},
		{QuerySearchFreelancers, cache.TTLShort.String()},
		{QueryUserProfile, cache.TTLMedium.String()},
		{QueryJobDetail, cache.TTLMedium.String()},
		{QueryTrendingJobs, cache.TTLLong.String()},
		{QueryFeaturedFreelancers, cache.TTLLong.String()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ttlFor(tt.name).String(); got != tt.want {
				t.Errorf("ttlFor = %s, want %s", got, tt.want)
			}
		})
	}
}
