// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package server

import (
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/gigmarket/internal/apierror"
	"github.com/tomtom215/gigmarket/internal/cache"
	"github.com/tomtom215/gigmarket/internal/httputil"
	"github.com/tomtom215/gigmarket/internal/monitor"
	"github.com/tomtom215/gigmarket/internal/security"
	"github.com/tomtom215/gigmarket/internal/validation"
)

// CSRFToken issues a random token. Clients send it back in both
// X-CSRF-Token and X-Session-Token on mutating requests.
func (a *App) CSRFToken(w http.ResponseWriter, _ *http.Request) error {
	token, err := security.GenerateToken()
	if err != nil {
		return apierror.Internal("Failed to generate CSRF token", err)
	}

	w.Header().Set("Cache-Control", "no-store")
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"csrfToken":  token,
		"headerName": security.HeaderCSRFToken,
		"echoHeader": security.HeaderSessionToken,
	})
	return nil
}

// SecurityMetrics returns the monitor's rolling counters.
func (a *App) SecurityMetrics(w http.ResponseWriter, r *http.Request) error {
	m, err := a.Monitor.Metrics(r.Context())
	if err != nil {
		return err
	}
	httputil.WriteJSON(w, http.StatusOK, m)
	return nil
}

type alertsQuery struct {
	Severity string `validate:"omitempty,oneof=low medium high critical"`
	Limit    int    `validate:"gte=0,lte=1000"`
}

// SecurityAlerts lists recent alerts, optionally for one severity.
func (a *App) SecurityAlerts(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	req := alertsQuery{
		Severity: strings.ToLower(q.Get("severity")),
		Limit:    intParam(q, "limit", 50),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return verr
	}

	alerts, err := a.Monitor.RecentAlerts(r.Context(), monitor.Severity(req.Severity), req.Limit)
	if err != nil {
		return err
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"alerts": alerts,
		"count":  len(alerts),
	})
	return nil
}

// IPReputation returns the trust score of one address.
func (a *App) IPReputation(w http.ResponseWriter, r *http.Request) error {
	ip := chi.URLParam(r, "ip")
	if net.ParseIP(ip) == nil {
		return apierror.Validation("Invalid IP address", map[string]string{"ip": ip})
	}

	rep, err := a.Monitor.IPReputation(r.Context(), ip)
	if err != nil {
		return err
	}
	httputil.WriteJSON(w, http.StatusOK, rep)
	return nil
}

// Performance returns the tracker summary and tuning hints.
func (a *App) Performance(w http.ResponseWriter, _ *http.Request) error {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"summary":         a.Tracker.Summary(),
		"endpoints":       a.Tracker.EndpointStats(),
		"recommendations": a.Tracker.Recommendations(),
		"heapMB":          a.Tracker.HeapUsageMB(),
		"samples":         a.Tracker.Len(),
		"cache":           a.Cache.Stats(),
	})
	return nil
}

type invalidateRequest struct {
	Scope string `json:"scope" validate:"required,oneof=user job listings freelancers pattern"`
	ID    string `json:"id" validate:"required_if=Scope user,required_if=Scope job"`
	// Pattern is a glob inside one of cache.Namespaces.
	Pattern string `json:"pattern" validate:"required_if=Scope pattern,max=200"`
}

// InvalidateCache drops cached reads after an out-of-band data change.
func (a *App) InvalidateCache(w http.ResponseWriter, r *http.Request) error {
	var req invalidateRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return verr
	}

	ctx := r.Context()
	var removed int64
	switch req.Scope {
	case "user":
		removed = a.Cache.InvalidateUser(ctx, req.ID)
	case "job":
		removed = a.Cache.InvalidateJob(ctx, req.ID)
	case "listings":
		removed = a.Cache.InvalidateJobListings(ctx)
	case "freelancers":
		removed = a.Cache.InvalidateFreelancerSearch(ctx)
	case "pattern":
		if !cache.InNamespace(req.Pattern) {
			return apierror.Validation("Pattern must start with a cache namespace", map[string]any{
				"namespaces": cache.Namespaces,
			})
		}
		removed = a.Cache.InvalidatePattern(ctx, req.Pattern)
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"removed": removed})
	return nil
}
