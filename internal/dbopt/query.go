// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package dbopt

import (
	"regexp"

	"gorm.io/gorm"
)

// Condition is one WHERE fragment with positional arguments.
type Condition struct {
	Query string `json:"query"`
	Args  []any  `json:"args,omitempty"`
}

// Order is one ORDER BY column.
type Order struct {
	Column string `json:"column"`
	Desc   bool   `json:"desc"`
}

// QueryOptions is the materialized result of a QueryBuilder.
type QueryOptions struct {
	Where   []Condition `json:"where,omitempty"`
	Include []string    `json:"include,omitempty"`
	OrderBy []Order     `json:"orderBy,omitempty"`
	Limit   int         `json:"limit,omitempty"`
	Offset  int         `json:"offset,omitempty"`
}

// QueryBuilder accumulates query fragments through chained calls.
//
//	opts := dbopt.NewQueryBuilder().
//	    Where("status = ?", "OPEN").
//	    OrderBy("created_at", true).
//	    Paginate(2, 20).
//	    Build()
type QueryBuilder struct {
	opts QueryOptions
}

func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// Where adds a condition. Conditions are ANDed.
func (b *QueryBuilder) Where(query string, args ...any) *QueryBuilder {
	b.opts.Where = append(b.opts.Where, Condition{Query: query, Args: args})
	return b
}

// Include preloads named associations.
func (b *QueryBuilder) Include(relations ...string) *QueryBuilder {
	b.opts.Include = append(b.opts.Include, relations...)
	return b
}

var columnName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// OrderBy appends a sort column. Anything that is not a plain column
// identifier is ignored since it is interpolated into SQL.
func (b *QueryBuilder) OrderBy(column string, desc bool) *QueryBuilder {
	if columnName.MatchString(column) {
		b.opts.OrderBy = append(b.opts.OrderBy, Order{Column: column, Desc: desc})
	}
	return b
}

// Paginate selects a 1-based page, clamped like Page.Normalize.
func (b *QueryBuilder) Paginate(page, limit int) *QueryBuilder {
	p := Page{Page: page, Limit: limit}.Normalize()
	b.opts.Limit = p.Limit
	b.opts.Offset = p.Offset()
	return b
}

// Build returns a copy of the accumulated options.
func (b *QueryBuilder) Build() QueryOptions {
	out := QueryOptions{
		Where:   append([]Condition(nil), b.opts.Where...),
		Include: append([]string(nil), b.opts.Include...),
		OrderBy: append([]Order(nil), b.opts.OrderBy...),
		Limit:   b.opts.Limit,
		Offset:  b.opts.Offset,
	}
	return out
}

// WhereScope applies only the conditions, for COUNT queries.
func (o QueryOptions) WhereScope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, c := range o.Where {
			db = db.Where(c.Query, c.Args...)
		}
		return db
	}
}

// Scope applies every option to a gorm query.
func (o QueryOptions) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = o.WhereScope()(db)
		for _, rel := range o.Include {
			db = db.Preload(rel)
		}
		for _, ord := range o.OrderBy {
			if ord.Desc {
				db = db.Order(ord.Column + " DESC")
			} else {
				db = db.Order(ord.Column)
			}
		}
		if o.Limit > 0 {
			db = db.Limit(o.Limit)
		}
		if o.Offset > 0 {
			db = db.Offset(o.Offset)
		}
		return db
	}
}
