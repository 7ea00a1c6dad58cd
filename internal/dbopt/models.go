// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package dbopt

import "time"

// UserProfile is the public view of a marketplace account.
type UserProfile struct {
	ID         string    `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email      string    `gorm:"column:email;uniqueIndex" json:"email"`
	Name       string    `gorm:"column:name" json:"name"`
	Role       string    `gorm:"column:role;index" json:"role"`
	Headline   string    `gorm:"column:headline" json:"headline,omitempty"`
	Skills     []string  `gorm:"column:skills;type:jsonb;serializer:json" json:"skills,omitempty"`
	HourlyRate float64   `gorm:"column:hourly_rate" json:"hourlyRate,omitempty"`
	Rating     float64   `gorm:"column:rating" json:"rating"`
	Featured   bool      `gorm:"column:featured" json:"featured"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (UserProfile) TableName() string { return "users" }

// Job is a posted piece of work.
type Job struct {
	ID          string    `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployerID  string    `gorm:"column:employer_id;type:uuid;index" json:"employerId"`
	Title       string    `gorm:"column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	Category    string    `gorm:"column:category;index" json:"category"`
	Status      string    `gorm:"column:status;index" json:"status"`
	Budget      float64   `gorm:"column:budget" json:"budget"`
	Skills      []string  `gorm:"column:skills;type:jsonb;serializer:json" json:"skills,omitempty"`
	Proposals   int       `gorm:"column:proposals" json:"proposals"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Job) TableName() string { return "jobs" }

// Job statuses.
const (
	JobStatusOpen   = "OPEN"
	JobStatusClosed = "CLOSED"
)

// Pagination defaults.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page selects a 1-based page of results.
type Page struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Normalize clamps the page into the supported range.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageSize
	case p.Limit > MaxPageSize:
		p.Limit = MaxPageSize
	}
	return p
}

// Offset returns the row offset of the page.
func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// JobFilter narrows a job listing.
type JobFilter struct {
	Category  string  `json:"category,omitempty"`
	Status    string  `json:"status,omitempty"`
	MinBudget float64 `json:"minBudget,omitempty"`
	MaxBudget float64 `json:"maxBudget,omitempty"`
	Search    string  `json:"search,omitempty"`
	Page
}

// JobPage is one page of a listing.
type JobPage struct {
	Jobs  []Job `json:"jobs"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// FreelancerQuery narrows a freelancer search.
type FreelancerQuery struct {
	Query     string  `json:"query,omitempty"`
	Skill     string  `json:"skill,omitempty"`
	MinRating float64 `json:"minRating,omitempty"`
	MaxRate   float64 `json:"maxRate,omitempty"`
	Page
}
