// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package dbopt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tomtom215/gigmarket/internal/logging"
)

// Repository is the read side of the data layer the optimizer fronts.
type Repository interface {
	UserProfile(ctx context.Context, id string) (UserProfile, error)
	JobDetail(ctx context.Context, id string) (Job, error)
	ListJobs(ctx context.Context, f JobFilter) (JobPage, error)
	SearchFreelancers(ctx context.Context, q FreelancerQuery) ([]UserProfile, error)
	TrendingJobs(ctx context.Context, limit int) ([]Job, error)
	FeaturedFreelancers(ctx context.Context, limit int) ([]UserProfile, error)
}

// Open connects to Postgres through gorm. TranslateError is enabled so
// constraint violations surface as gorm sentinels.
// A lifetime <= 0 defaults to one hour.
func Open(ctx context.Context, databaseURL string, maxConns int, lifetime time.Duration) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}
	if maxConns > 0 {
		sqlDB.SetMaxOpenConns(maxConns)
		sqlDB.SetMaxIdleConns(max(maxConns/2, 1))
	}
	sqlDB.SetConnMaxIdleTime(15 * time.Minute)
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	sqlDB.SetConnMaxLifetime(lifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	dbLog := logging.WithComponent("dbopt")
	dbLog.Info().Int("max_conns", maxConns).Msg("Connected to Postgres")
	return db, nil
}

// GormRepository implements Repository on gorm.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository wraps an open connection.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// AutoMigrate creates the tables read by the repository. Used by tests and
// local development; production schemas are managed elsewhere.
func (r *GormRepository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&UserProfile{}, &Job{})
}

func (r *GormRepository) UserProfile(ctx context.Context, id string) (UserProfile, error) {
	var u UserProfile
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error; err != nil {
		return UserProfile{}, fmt.Errorf("user profile %s: %w", id, err)
	}
	return u, nil
}

func (r *GormRepository) JobDetail(ctx context.Context, id string) (Job, error) {
	var j Job
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&j).Error; err != nil {
		return Job{}, fmt.Errorf("job %s: %w", id, err)
	}
	return j, nil
}

func (r *GormRepository) ListJobs(ctx context.Context, f JobFilter) (JobPage, error) {
	page := f.Page.Normalize()
	filter := JobListQuery(f)

	var total int64
	if err := r.db.WithContext(ctx).Model(&Job{}).Scopes(filter.WhereScope()).Count(&total).Error; err != nil {
		return JobPage{}, fmt.Errorf("count jobs: %w", err)
	}

	var jobs []Job
	if err := r.db.WithContext(ctx).Scopes(filter.Scope()).Find(&jobs).Error; err != nil {
		return JobPage{}, fmt.Errorf("list jobs: %w", err)
	}
	return JobPage{Jobs: jobs, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

func (r *GormRepository) SearchFreelancers(ctx context.Context, q FreelancerQuery) ([]UserProfile, error) {
	var out []UserProfile
	if err := r.db.WithContext(ctx).Scopes(FreelancerSearchQuery(q).Scope()).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("search freelancers: %w", err)
	}
	return out, nil
}

func (r *GormRepository) TrendingJobs(ctx context.Context, limit int) ([]Job, error) {
	opts := NewQueryBuilder().
		Where("status = ?", JobStatusOpen).
		OrderBy("proposals", true).
		OrderBy("created_at", true).
		Paginate(1, limit).
		Build()

	var out []Job
	if err := r.db.WithContext(ctx).Scopes(opts.Scope()).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("trending jobs: %w", err)
	}
	return out, nil
}

func (r *GormRepository) FeaturedFreelancers(ctx context.Context, limit int) ([]UserProfile, error) {
	opts := NewQueryBuilder().
		Where("role = ?", "FREELANCER").
		Where("featured = ?", true).
		OrderBy("rating", true).
		Paginate(1, limit).
		Build()

	var out []UserProfile
	if err := r.db.WithContext(ctx).Scopes(opts.Scope()).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("featured freelancers: %w", err)
	}
	return out, nil
}

// JobListQuery translates a listing filter into query options.
func JobListQuery(f JobFilter) QueryOptions {
	b := NewQueryBuilder()
	if f.Category != "" {
		b.Where("category = ?", f.Category)
	}
	status := f.Status
	if status == "" {
		status = JobStatusOpen
	}
	b.Where("status = ?", status)
	if f.MinBudget > 0 {
		b.Where("budget >= ?", f.MinBudget)
	}
	if f.MaxBudget > 0 {
		b.Where("budget <= ?", f.MaxBudget)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + escapeLike(s) + "%"
		b.Where("(title ILIKE ? OR description ILIKE ?)", like, like)
	}
	return b.OrderBy("created_at", true).Paginate(f.Page.Page, f.Page.Limit).Build()
}

// FreelancerSearchQuery translates a search into query options.
func FreelancerSearchQuery(q FreelancerQuery) QueryOptions {
	b := NewQueryBuilder().Where("role = ?", "FREELANCER")
	if s := strings.TrimSpace(q.Query); s != "" {
		like := "%" + escapeLike(s) + "%"
		b.Where("(name ILIKE ? OR headline ILIKE ?)", like, like)
	}
	if q.Skill != "" {
		if skill, err := json.Marshal([]string{q.Skill}); err == nil {
			b.Where("skills @> ?::jsonb", string(skill))
		}
	}
	if q.MinRating > 0 {
		b.Where("rating >= ?", q.MinRating)
	}
	if q.MaxRate > 0 {
		b.Where("hourly_rate <= ?", q.MaxRate)
	}
	return b.OrderBy("rating", true).Paginate(q.Page.Page, q.Page.Limit).Build()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
