// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/gigmarket/internal/apierror"
	"github.com/tomtom215/gigmarket/internal/dbopt"
	"github.com/tomtom215/gigmarket/internal/httputil"
	"github.com/tomtom215/gigmarket/internal/validation"
)

const defaultShowcaseLimit = 10

type jobListQuery struct {
	Category  string  `validate:"max=50"`
	Status    string  `validate:"omitempty,oneof=OPEN CLOSED"`
	MinBudget float64 `validate:"gte=0"`
	MaxBudget float64 `validate:"gte=0"`
	Search    string  `validate:"max=100"`
	Page      int     `validate:"gte=0"`
	Limit     int     `validate:"gte=0,lte=100"`
}

type freelancerSearchQuery struct {
	Query     string  `validate:"max=100"`
	Skill     string  `validate:"max=50"`
	MinRating float64 `validate:"gte=0,lte=5"`
	MaxRate   float64 `validate:"gte=0"`
	Page      int     `validate:"gte=0"`
	Limit     int     `validate:"gte=0,lte=100"`
}

func (a *App) optimizer() (*dbopt.Optimizer, error) {
	if a.Optimizer == nil {
		return nil, apierror.New(apierror.TypeDatabase, "Database not configured").
			WithStatus(http.StatusServiceUnavailable).
			WithSeverity(apierror.SeverityMedium)
	}
	return a.Optimizer, nil
}

// ListJobs returns a page of jobs.
func (a *App) ListJobs(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	req := jobListQuery{
		Category:  strings.TrimSpace(q.Get("category")),
		Status:    strings.ToUpper(q.Get("status")),
		MinBudget: floatParam(q, "minBudget"),
		MaxBudget: floatParam(q, "maxBudget"),
		Search:    strings.TrimSpace(q.Get("search")),
		Page:      intParam(q, "page", 1),
		Limit:     intParam(q, "limit", dbopt.DefaultPageSize),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return verr
	}

	opt, err := a.optimizer()
	if err != nil {
		return err
	}
	page, err := opt.ListJobs(r.Context(), dbopt.JobFilter{
		Category:  req.Category,
		Status:    req.Status,
		MinBudget: req.MinBudget,
		MaxBudget: req.MaxBudget,
		Search:    req.Search,
		Page:      dbopt.Page{Page: req.Page, Limit: req.Limit},
	})
	if err != nil {
		return err
	}
	httputil.WriteJSON(w, http.StatusOK, page)
	return nil
}

// JobDetail returns one job.
func (a *App) JobDetail(w http.ResponseWriter, r *http.Request) error {
	id, err := uuidParam(r, "id")
	if err != nil {
		return err
	}
	opt, err := a.optimizer()
	if err != nil {
		return err
	}
	job, err := opt.JobDetail(r.Context(), id)
	if err != nil {
		return err
	}
	httputil.WriteJSON(w, http.StatusOK, job)
	return nil
}

// TrendingJobs returns the most-bid open jobs.
func (a *App) TrendingJobs(w http.ResponseWriter, r *http.Request) error {
	limit := intParam(r.URL.Query(), "limit", defaultShowcaseLimit)
	if limit < 1 || limit > dbopt.MaxPageSize {
		return apierror.Validation("limit must be between 1 and 100", nil)
	}
	opt, err := a.optimizer()
	if err != nil {
		return err
	}
	jobs, err := opt.TrendingJobs(r.Context(), limit)
	if err != nil {
		return err
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
	return nil
}

// SearchFreelancers filters freelancer profiles.
func (a *App) SearchFreelancers(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	req := freelancerSearchQuery{
		Query:     strings.TrimSpace(q.Get("q")),
		Skill:     strings.TrimSpace(q.Get("skill")),
		MinRating: floatParam(q, "minRating"),
		MaxRate:   floatParam(q, "maxRate"),
		Page:      intParam(q, "page", 1),
		Limit:     intParam(q, "limit", dbopt.DefaultPageSize),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return verr
	}

	opt, err := a.optimizer()
	if err != nil {
		return err
	}
	profiles, err := opt.SearchFreelancers(r.Context(), dbopt.FreelancerQuery{
		Query:     req.Query,
		Skill:     req.Skill,
		MinRating: req.MinRating,
		MaxRate:   req.MaxRate,
		Page:      dbopt.Page{Page: req.Page, Limit: req.Limit},
	})
	if err != nil {
		return err
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"freelancers": profiles})
	return nil
}

// FeaturedFreelancers returns the curated freelancer list.
func (a *App) FeaturedFreelancers(w http.ResponseWriter, r *http.Request) error {
	limit := intParam(r.URL.Query(), "limit", defaultShowcaseLimit)
	if limit < 1 || limit > dbopt.MaxPageSize {
		return apierror.Validation("limit must be between 1 and 100", nil)
	}
	opt, err := a.optimizer()
	if err != nil {
		return err
	}
	profiles, err := opt.FeaturedFreelancers(r.Context(), limit)
	if err != nil {
		return err
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"freelancers": profiles})
	return nil
}

// UserProfile returns a public profile.
func (a *App) UserProfile(w http.ResponseWriter, r *http.Request) error {
	id, err := uuidParam(r, "id")
	if err != nil {
		return err
	}
	opt, err := a.optimizer()
	if err != nil {
		return err
	}
	profile, err := opt.UserProfile(r.Context(), id)
	if err != nil {
		return err
	}
	httputil.WriteJSON(w, http.StatusOK, profile)
	return nil
}

func uuidParam(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apierror.Validation("Invalid identifier", map[string]string{name: raw})
	}
	return id.String(), nil
}
