// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package middleware

import (
	"sort"
	"strings"

	"github.com/tomtom215/gigmarket/internal/ratelimit"
	"github.com/tomtom215/gigmarket/internal/session"
)

// SecurityProfile selects the inspection and auth stages for a route class.
type SecurityProfile struct {
	RequireAuth     bool
	ValidateCSRF    bool
	LogRequests     bool
	CheckSuspicious bool
	// Roles, when set, restricts the class to these roles and implies RequireAuth.
	Roles []session.Role
}

// RouteClass binds a rate limit and a security profile to a path prefix.
type RouteClass struct {
	Name      string
	Prefix    string
	RateLimit *ratelimit.Config // nil disables limiting
	Security  SecurityProfile
}

// RouteTable resolves a path to its most specific route class.
//
// Classes are kept sorted by descending segment count, then descending
// prefix length, then prefix, and Match returns the first one whose prefix
// covers the path on a segment boundary. "/api/admin" therefore wins over
// "/api" for "/api/admin/users" but does not match "/api/administrators".
type RouteTable struct {
	classes []RouteClass
}

// NewRouteTable builds a table from classes. Trailing slashes on prefixes
// are ignored.
func NewRouteTable(classes ...RouteClass) *RouteTable {
	sorted := make([]RouteClass, len(classes))
	copy(sorted, classes)
	for i := range sorted {
		sorted[i].Prefix = normalizePrefix(sorted[i].Prefix)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Prefix, sorted[j].Prefix
		if sa, sb := segmentCount(a), segmentCount(b); sa != sb {
			return sa > sb
		}
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
	return &RouteTable{classes: sorted}
}

// Match returns the most specific class covering path.
func (t *RouteTable) Match(path string) (RouteClass, bool) {
	for _, c := range t.classes {
		if coversPath(c.Prefix, path) {
			return c, true
		}
	}
	return RouteClass{}, false
}

// ClassName returns the matched class name, or "other". Used as a bounded
// metrics label.
func (t *RouteTable) ClassName(path string) string {
	if c, ok := t.Match(path); ok {
		return c.Name
	}
	return "other"
}

// Classes returns the table in match order.
func (t *RouteTable) Classes() []RouteClass {
	out := make([]RouteClass, len(t.classes))
	copy(out, t.classes)
	return out
}

func normalizePrefix(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}

func segmentCount(p string) int {
	n := 0
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			n++
		}
	}
	return n
}

func coversPath(prefix, path string) bool {
	if prefix == "/" {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

func limit(cfg ratelimit.Config) *ratelimit.Config {
	return &cfg
}

// DefaultRoutes is the marketplace route table. apiPerMinute sets the
// generic /api budget.
func DefaultRoutes(apiPerMinute int) *RouteTable {
	return NewRouteTable(
		RouteClass{
			Name:      "auth",
			Prefix:    "/api/auth",
			RateLimit: limit(ratelimit.Auth),
			Security:  SecurityProfile{LogRequests: true, CheckSuspicious: true},
		},
		RouteClass{
			Name:      "payments",
			Prefix:    "/api/payments",
			RateLimit: limit(ratelimit.Payment),
			Security:  SecurityProfile{RequireAuth: true, ValidateCSRF: true, LogRequests: true, CheckSuspicious: true},
		},
		RouteClass{
			Name:      "upload",
			Prefix:    "/api/upload",
			RateLimit: limit(ratelimit.Upload),
			Security:  SecurityProfile{RequireAuth: true, ValidateCSRF: true, CheckSuspicious: true},
		},
		RouteClass{
			Name:      "messages",
			Prefix:    "/api/messages",
			RateLimit: limit(ratelimit.Messaging),
			Security:  SecurityProfile{RequireAuth: true, ValidateCSRF: true, CheckSuspicious: true},
		},
		RouteClass{
			Name:      "admin",
			Prefix:    "/api/admin",
			RateLimit: limit(ratelimit.Admin),
			Security: SecurityProfile{
				RequireAuth:     true,
				ValidateCSRF:    true,
				LogRequests:     true,
				CheckSuspicious: true,
				Roles:           []session.Role{session.RoleAdmin},
			},
		},
		RouteClass{
			Name:      "webhooks",
			Prefix:    "/api/webhooks",
			RateLimit: limit(ratelimit.Public),
		},
		RouteClass{
			Name:      "api",
			Prefix:    "/api",
			RateLimit: limit(ratelimit.API(apiPerMinute)),
			Security:  SecurityProfile{CheckSuspicious: true},
		},
	)
}
