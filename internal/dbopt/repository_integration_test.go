// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

//go:build integration

package dbopt_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/tomtom215/gigmarket/internal/apierror"
	"github.com/tomtom215/gigmarket/internal/dbopt"
	"github.com/tomtom215/gigmarket/internal/testinfra"
)

func newRepository(t *testing.T) (*dbopt.GormRepository, *gorm.DB) {
	t.Helper()
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	pg, err := testinfra.NewPostgresContainer(ctx)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { testinfra.CleanupContainer(t, context.Background(), pg) })

	db, err := dbopt.Open(ctx, pg.DSN, 4, 10*time.Minute)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	repo := dbopt.NewGormRepository(db)
	if err := repo.AutoMigrate(ctx); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}
	return repo, db
}

func TestGormRepositoryListAndSearch(t *testing.T) {
	repo, db := newRepository(t)
	ctx := context.Background()

	users := []dbopt.UserProfile{
		{Email: "ada@example.com", Name: "Ada", Role: "FREELANCER", Skills: []string{"go", "sql"}, Rating: 4.9, Featured: true},
		{Email: "bob@example.com", Name: "Bob", Role: "FREELANCER", Skills: []string{"figma"}, Rating: 4.1},
		{Email: "emp@example.com", Name: "Acme", Role: "EMPLOYER"},
	}
	if err := db.Create(&users).Error; err != nil {
		t.Fatalf("seed users: %v", err)
	}
	jobs := []dbopt.Job{
		{EmployerID: users[2].ID, Title: "Go API", Category: "dev", Status: dbopt.JobStatusOpen, Budget: 900, Proposals: 4},
		{EmployerID: users[2].ID, Title: "Logo", Category: "design", Status: dbopt.JobStatusOpen, Budget: 150},
		{EmployerID: users[2].ID, Title: "Old", Category: "dev", Status: dbopt.JobStatusClosed, Budget: 100},
	}
	if err := db.Create(&jobs).Error; err != nil {
		t.Fatalf("seed jobs: %v", err)
	}

	page, err := repo.ListJobs(ctx, dbopt.JobFilter{Category: "dev"})
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if page.Total != 1 || len(page.Jobs) != 1 || page.Jobs[0].Title != "Go API" {
		t.Errorf("ListJobs = %+v, want only the open dev job", page)
	}

	found, err := repo.SearchFreelancers(ctx, dbopt.FreelancerQuery{Skill: "go"})
	if err != nil {
		t.Fatalf("SearchFreelancers() error = %v", err)
	}
	if len(found) != 1 || found[0].Name != "Ada" {
		t.Errorf("SearchFreelancers = %+v, want Ada", found)
	}

	featured, err := repo.FeaturedFreelancers(ctx, 5)
	if err != nil {
		t.Fatalf("FeaturedFreelancers() error = %v", err)
	}
	if len(featured) != 1 {
		t.Errorf("FeaturedFreelancers = %d rows, want 1", len(featured))
	}

	trending, err := repo.TrendingJobs(ctx, 1)
	if err != nil {
		t.Fatalf("TrendingJobs() error = %v", err)
	}
	if len(trending) != 1 || trending[0].Title != "Go API" {
		t.Errorf("TrendingJobs = %+v", trending)
	}
}

func TestGormRepositoryErrorsClassify(t *testing.T) {
	repo, db := newRepository(t)
	ctx := context.Background()

	_, err := repo.JobDetail(ctx, "00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("JobDetail(missing) error = %v", err)
	}
	if e := apierror.Transform(err); e.Status != 404 {
		t.Errorf("not found classified as %d", e.Status)
	}

	dup := dbopt.UserProfile{Email: "dup@example.com", Name: "Dup", Role: "EMPLOYER"}
	if err := db.Create(&dup).Error; err != nil {
		t.Fatal(err)
	}
	again := dbopt.UserProfile{Email: "dup@example.com", Name: "Dup 2", Role: "EMPLOYER"}
	err = db.Create(&again).Error
	e := apierror.Transform(err)
	if e.Type != apierror.TypeDatabase || e.Status != 409 {
		t.Errorf("duplicate email classified as %s/%d, want DATABASE_ERROR/409", e.Type, e.Status)
	}

	_, err = repo.UserProfile(ctx, "not-a-uuid")
	if e := apierror.Transform(err); e.Status != 400 {
		t.Errorf("invalid uuid classified as %d, want 400", e.Status)
	}
}
