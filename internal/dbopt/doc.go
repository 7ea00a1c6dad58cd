// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

// Package dbopt puts a cache-aside layer in front of the marketplace read
// queries.
//
// Each Optimizer method derives a deterministic cache key from its
// parameters, then on a miss runs the Repository call under a perf timer and
// stores the result. Lifetimes follow volatility: listings and searches
// are short, single entities medium, curated lists long. Writes are not
// handled here; callers invalidate through cache.Manager.
//
// QueryBuilder collects WHERE, preload, ORDER BY and pagination fragments
// into a QueryOptions value that applies to any *gorm.DB via Scope.
package dbopt
