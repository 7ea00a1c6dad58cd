// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/gigmarket/internal/session"
)

func TestPageGuard(t *testing.T) {
	sessions, err := session.NewJWTResolver(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewJWTResolver: %v", err)
	}
	guard := NewPageGuard(sessions)

	tokenFor := func(role session.Role) string {
		tok, err := sessions.Issue(session.User{ID: "page-user-0001", Role: role})
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		return tok
	}

	tests := []struct {
		name     string
		target   string
		role     session.Role
		wantCode int
		wantLoc  string
	}{
		{"anonymous on dashboard", "/dashboard", "", http.StatusFound, "/auth/signin?callbackUrl=%2Fdashboard"},
		{"anonymous keeps query", "/employer/jobs?tab=open", "", http.StatusFound, "/auth/signin?callbackUrl=%2Femployer%2Fjobs%3Ftab%3Dopen"},
		{"anonymous on sign in", "/auth/signin", "", http.StatusOK, ""},
		{"anonymous on landing page", "/", "", http.StatusOK, ""},
		{"signed in on sign in", "/auth/signin", session.RoleFreelancer, http.StatusFound, "/dashboard"},
		{"freelancer on employer section", "/employer/jobs", session.RoleFreelancer, http.StatusFound, "/dashboard"},
		{"employer on employer section", "/employer/jobs", session.RoleEmployer, http.StatusOK, ""},
		{"employer on admin", "/admin", session.RoleEmployer, http.StatusFound, "/dashboard"},
		{"admin on admin", "/admin/users", session.RoleAdmin, http.StatusOK, ""},
		{"any role on settings", "/settings/profile", session.RoleFreelancer, http.StatusOK, ""},
		{"prefix lookalike not gated", "/administration-guide", "", http.StatusOK, ""},
	}

	handler := guard.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.role != "" {
				req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tokenFor(tt.role)})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if got := rec.Header().Get("Location"); got != tt.wantLoc {
				t.Errorf("Location = %q, want %q", got, tt.wantLoc)
			}
		})
	}
}

func TestPageGuardWithoutResolver(t *testing.T) {
	guard := NewPageGuard(nil)
	target, redirect := guard.Redirect(httptest.NewRequest(http.MethodGet, "/messages", nil))
	if !redirect || target != "/auth/signin?callbackUrl=%2Fmessages" {
		t.Errorf("Redirect = %q, %v", target, redirect)
	}
}
