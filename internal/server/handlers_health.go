// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/gigmarket/internal/apierror"
	"github.com/tomtom215/gigmarket/internal/cache"
	"github.com/tomtom215/gigmarket/internal/httputil"
)

const healthTimeout = 2 * time.Second

// HealthStatus is the /healthz body.
type HealthStatus struct {
	Status   string      `json:"status"`
	Store    string      `json:"store"`
	StoreOK  bool        `json:"storeOk"`
	Database bool        `json:"database"`
	Cache    cache.Stats `json:"cache"`
	Uptime   float64     `json:"uptimeSeconds"`
}

// Health reports store connectivity. A failing store answers 503 with
// status "degraded".
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	storeOK := a.Cache.HealthCheck(ctx) == nil
	status := HealthStatus{
		Status:   "healthy",
		Store:    a.Store.Backend(),
		StoreOK:  storeOK,
		Database: a.Optimizer != nil,
		Cache:    a.Cache.Stats(),
		Uptime:   time.Since(a.started).Seconds(),
	}

	code := http.StatusOK
	if !storeOK {
		status.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, code, status)
}

func (a *App) notFound(_ http.ResponseWriter, r *http.Request) error {
	return apierror.NotFound("Route")
}

func (a *App) methodNotAllowed(_ http.ResponseWriter, r *http.Request) error {
	return apierror.New(apierror.TypeValidation, "Method not allowed").
		WithStatus(http.StatusMethodNotAllowed).
		WithCode("METHOD_NOT_ALLOWED")
}
