// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package middleware

import (
	"net/http"
	"net/url"

	"github.com/tomtom215/gigmarket/internal/session"
)

// Page locations used by PageGuard.
const (
	SignInPath  = "/auth/signin"
	LandingPath = "/dashboard"
)

type pageSection struct {
	prefix string
	roles  []session.Role // empty: any signed-in user
}

var gatedSections = []pageSection{
	{prefix: "/admin", roles: []session.Role{session.RoleAdmin}},
	{prefix: "/employer", roles: []session.Role{session.RoleEmployer}},
	{prefix: "/freelancer", roles: []session.Role{session.RoleFreelancer}},
	{prefix: "/dashboard"},
	{prefix: "/settings"},
	{prefix: "/messages"},
}

// PageGuard redirects page requests by session state:
//
//   - signed-out users on a gated section go to the sign-in page, with the
//     original location in callbackUrl
//   - signed-in users on /auth pages go to the landing page
//   - users outside a section's role go to the landing page
//
// API routes are not handled here; they go through Pipeline.
type PageGuard struct {
	sessions session.Resolver
}

// NewPageGuard creates a guard. A nil resolver treats everyone as signed out.
func NewPageGuard(sessions session.Resolver) *PageGuard {
	return &PageGuard{sessions: sessions}
}

// Handler wraps next with the redirect rules.
func (g *PageGuard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if target, redirect := g.Redirect(r); redirect {
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Redirect returns where r should be sent instead, if anywhere.
func (g *PageGuard) Redirect(r *http.Request) (string, bool) {
	s := g.session(r)
	path := r.URL.Path

	if coversPath("/auth", path) {
		if s != nil {
			return LandingPath, true
		}
		return "", false
	}

	for _, sec := range gatedSections {
		if !coversPath(sec.prefix, path) {
			continue
		}
		if s == nil {
			return SignInPath + "?callbackUrl=" + url.QueryEscape(r.URL.RequestURI()), true
		}
		if len(sec.roles) > 0 && !s.HasRole(sec.roles...) {
			return LandingPath, true
		}
		return "", false
	}
	return "", false
}

func (g *PageGuard) session(r *http.Request) *session.Session {
	if s, ok := session.FromContext(r.Context()); ok {
		return s
	}
	if g.sessions == nil {
		return nil
	}
	s, err := g.sessions.Resolve(r)
	if err != nil {
		return nil
	}
	return s
}
