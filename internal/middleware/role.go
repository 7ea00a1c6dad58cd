// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package middleware

import (
	"net/http"

	"github.com/tomtom215/gigmarket/internal/apierror"
	"github.com/tomtom215/gigmarket/internal/security"
	"github.com/tomtom215/gigmarket/internal/session"
)

// CheckRole returns nil when r carries a session whose role is in roles.
// An empty roles list only requires a session. The error is AUTHENTICATION
// when there is no session and AUTHORIZATION when the role does not match.
func CheckRole(r *http.Request, roles ...session.Role) *apierror.APIError {
	s, ok := session.FromContext(r.Context())
	if !ok {
		return apierror.Authentication("Authentication required")
	}
	if len(roles) > 0 && !s.HasRole(roles...) {
		return apierror.Authorization("Insufficient permissions")
	}
	return nil
}

// gate enforces CheckRole, logging and responding on denial.
func (p *Pipeline) gate(w http.ResponseWriter, r *http.Request, roles []session.Role) bool {
	e := CheckRole(r, roles...)
	if e == nil {
		return true
	}

	ip := security.ClientIP(r)
	if e.Type == apierror.TypeAuthentication {
		p.secLog.LogUnauthenticated(ip, r.Method, r.URL.Path)
	} else {
		s, _ := session.FromContext(r.Context())
		required := make([]string, len(roles))
		for i, role := range roles {
			required[i] = string(role)
		}
		p.secLog.LogAccessDenied(s.User.ID, string(s.User.Role), ip, r.URL.Path, required)
	}

	// The error handler raises the auth_failure or unauthorized_access alert.
	p.errors.Handle(w, r, e)
	return false
}

// RequireRole is the role gate as standalone middleware, for routes that
// need a narrower role set than their route class.
func (p *Pipeline) RequireRole(roles ...session.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = p.withSession(r)
			if !p.gate(w, r, roles) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
