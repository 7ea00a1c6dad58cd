// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package server

import (
	"fmt"
	"time"

	"github.com/tomtom215/gigmarket/internal/apierror"
	"github.com/tomtom215/gigmarket/internal/cache"
	"github.com/tomtom215/gigmarket/internal/config"
	"github.com/tomtom215/gigmarket/internal/dbopt"
	"github.com/tomtom215/gigmarket/internal/logging"
	"github.com/tomtom215/gigmarket/internal/middleware"
	"github.com/tomtom215/gigmarket/internal/monitor"
	"github.com/tomtom215/gigmarket/internal/perf"
	"github.com/tomtom215/gigmarket/internal/ratelimit"
	"github.com/tomtom215/gigmarket/internal/security"
	"github.com/tomtom215/gigmarket/internal/session"
	"github.com/tomtom215/gigmarket/internal/store"
)

// App holds the process-wide components. It is built once in main and
// shared by every request; all fields are safe for concurrent use.
type App struct {
	Config    *config.Config
	Store     store.Store
	Cache     *cache.Manager
	Limiter   *ratelimit.Limiter
	Inspector *security.Inspector
	Monitor   *monitor.Monitor
	Tracker   *perf.Tracker
	Errors    *apierror.Handler
	Pipeline  *middleware.Pipeline
	PageGuard *middleware.PageGuard

	// Sessions is nil when no signing secret is configured; every request
	// is then anonymous.
	Sessions *session.JWTResolver

	// Optimizer is nil when no database is configured; the read endpoints
	// then answer 503.
	Optimizer *dbopt.Optimizer

	started time.Time
}

// NewApp wires the components over s. repo may be nil.
func NewApp(cfg *config.Config, s store.Store, repo dbopt.Repository) (*App, error) {
	a := &App{
		Config:    cfg,
		Store:     s,
		Cache:     cache.NewManager(s, cfg.Cache.DefaultTTL),
		Limiter:   ratelimit.New(s),
		Inspector: security.NewInspector(),
		Monitor:   monitor.New(s),
		Tracker:   perf.New(perf.DefaultCapacity),
		started:   time.Now(),
	}

	pager := apierror.NewThrottledPager(apierror.LogPager{}, cfg.Security.PagerRatePerMinute)
	a.Errors = apierror.NewHandler(cfg.IsProduction(), a.Monitor, pager)

	var resolver session.Resolver
	if cfg.Session.JWTSecret != "" {
		sessions, err := session.NewJWTResolver(cfg.Session.JWTSecret, cfg.Session.TTL)
		if err != nil {
			return nil, fmt.Errorf("session resolver: %w", err)
		}
		a.Sessions = sessions.WithCookieName(cfg.Session.CookieName)
		resolver = a.Sessions
	} else {
		logging.Warn().Msg("SESSION_JWT_SECRET not set, all requests are anonymous")
	}

	if repo != nil {
		a.Optimizer = dbopt.NewOptimizer(repo, a.Cache, a.Tracker)
	}

	a.Pipeline = middleware.NewPipeline(middleware.Options{
		Routes:    middleware.DefaultRoutes(cfg.Security.APIRatePerMinute),
		Limiter:   a.Limiter,
		Inspector: a.Inspector,
		Alerts:    a.Monitor,
		Sessions:  resolver,
		Errors:    a.Errors,
		Tracker:   a.Tracker,
		Headers:   security.HeaderConfig{PaymentOrigins: cfg.Security.PaymentScriptOrigins},
		CORS:      middleware.DefaultCORSOptions(cfg.Security.CORSOrigins),
	})
	a.PageGuard = middleware.NewPageGuard(resolver)

	return a, nil
}
