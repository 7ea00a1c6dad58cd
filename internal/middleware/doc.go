// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

/*
Package middleware composes the per-request security and resilience stages.

Routes are grouped into route classes by path prefix. Each class carries a
rate limit and a security profile, and the most specific prefix wins:

	routes := middleware.DefaultRoutes(cfg.Security.APIRatePerMinute)
	class, _ := routes.Match("/api/admin/users") // "admin", not "api"

Pipeline runs the stages for the matched class in a fixed order:

	RequestID          X-Request-ID, logging context
	security headers   CSP, HSTS, frame and sniffing protection
	Timing             X-Response-Time, X-Memory-Usage, perf tracker
	Prometheus         request metrics labeled by route class
	CORS               go-chi/cors, preflight answered here
	rate limit         ratelimit.Limiter, 429 with Retry-After
	inspection         suspicious user agent and URL, CSRF token pair
	session and role   401 without a session, 403 outside the roles

A rejection at any stage ends the request, and the outer stages still
decorate the response. Rate limit, inspection and auth denials are recorded
as security alerts.

PageGuard applies the redirect rules for page routes (sign-in, landing
page, role-scoped sections). Compression is independent and wraps JSON
handlers that benefit from gzip.
*/
package middleware
