// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/gigmarket/internal/middleware"
)

// Router builds the HTTP handler. Every route passes through the request
// pipeline; the route class of the path decides which stages apply.
func (a *App) Router() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(a.Pipeline.Handler)
	r.Use(chimiddleware.CleanPath)
	r.Use(middleware.Compression)
	r.Use(a.PageGuard.Handler)

	r.NotFound(a.Errors.Wrap(a.notFound))
	r.MethodNotAllowed(a.Errors.Wrap(a.methodNotAllowed))

	// ========================
	// Operational Endpoints
	// ========================
	r.Get("/healthz", a.Health)
	// Compression above already gzips, so promhttp must not.
	r.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		DisableCompression: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/csrf", a.Errors.Wrap(a.CSRFToken))

		// Marketplace reads, served through the cached query optimizer.
		r.Get("/jobs", a.Errors.Wrap(a.ListJobs))
		r.Get("/jobs/trending", a.Errors.Wrap(a.TrendingJobs))
		r.Get("/jobs/{id}", a.Errors.Wrap(a.JobDetail))
		r.Get("/freelancers/search", a.Errors.Wrap(a.SearchFreelancers))
		r.Get("/freelancers/featured", a.Errors.Wrap(a.FeaturedFreelancers))
		r.Get("/users/{id}", a.Errors.Wrap(a.UserProfile))

		r.Post("/payments/intent", a.Errors.Wrap(a.CreatePaymentIntent))
		r.Post("/webhooks/payments", a.Errors.Wrap(a.PaymentWebhook))

		// Role ADMIN is enforced by the admin route class.
		r.Route("/admin", func(r chi.Router) {
			r.Get("/security/metrics", a.Errors.Wrap(a.SecurityMetrics))
			r.Get("/security/alerts", a.Errors.Wrap(a.SecurityAlerts))
			r.Get("/security/reputation/{ip}", a.Errors.Wrap(a.IPReputation))
			r.Get("/performance", a.Errors.Wrap(a.Performance))
			r.Post("/cache/invalidate", a.Errors.Wrap(a.InvalidateCache))
		})
	})

	return r
}
