// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package cache

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// TTL tiers by data volatility.
const (
	TTLShort  = 60 * time.Second // paginated listings, search results
	TTLMedium = 5 * time.Minute  // single entities
	TTLLong   = 30 * time.Minute // curated and trending lists
	TTLDay    = 24 * time.Hour
)

// Key namespaces used by the read path and the invalidation helpers.
const (
	NSUserProfile      = "user:profile"
	NSJobDetail        = "job:detail"
	NSJobList          = "job:list"
	NSJobTrending      = "job:trending"
	NSFreelancerSearch = "freelancer:search"
	NSFreelancerTop    = "freelancer:featured"
)

// Namespaces lists every namespace the cache writes under.
var Namespaces = []string{
	NSUserProfile, NSJobDetail, NSJobList, NSJobTrending, NSFreelancerSearch, NSFreelancerTop,
}

// InNamespace reports whether key (or glob pattern) lies inside one of the
// cache namespaces. Limiter and monitor keys never do.
func InNamespace(key string) bool {
	for _, ns := range Namespaces {
		if strings.HasPrefix(key, ns+":") {
			return true
		}
	}
	return false
}

// Key joins parts with ':'.
//
//	cache.Key(cache.NSJobDetail, jobID) // "job:detail:42"
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// GenerateKey creates a deterministic key from an operation name and its
// parameters. Parameters are JSON-encoded (map keys are sorted by the
// encoder) and hashed so arbitrarily large filters produce short keys.
//
//	key := cache.GenerateKey(cache.NSJobList, filters)
//	// "job:list:3f8a..."
func GenerateKey(namespace string, params any) string {
	data, err := json.Marshal(params)
	if err != nil {
		// Unencodable params degrade to fmt formatting, still deterministic for
		// plain structs.
		data = []byte(fmt.Sprintf("%+v", params))
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", namespace, sum[:16])
}
