// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

/*
Package server assembles the marketplace HTTP surface.

NewApp builds the shared components over one store.Store (cache manager,
rate limiter, security inspector, security monitor, performance tracker,
error handler and, when a database is configured, the query optimizer).
Router mounts them behind the request pipeline:

	Pipeline -> CleanPath -> Compression -> PageGuard -> chi routes

Handlers return errors and are wrapped with apierror.Handler.Wrap, so every
failure reaches the client as the same JSON envelope with the request id.

Endpoints:

	GET  /healthz                               store and cache health
	GET  /metrics                               Prometheus metrics
	GET  /api/csrf                              issue a CSRF token pair
	GET  /api/jobs                              filtered job listing
	GET  /api/jobs/trending                     most-bid open jobs
	GET  /api/jobs/{id}                         job detail
	GET  /api/freelancers/search                freelancer search
	GET  /api/freelancers/featured              featured freelancers
	GET  /api/users/{id}                        public profile
	POST /api/payments/intent                   create a payment intent
	POST /api/webhooks/payments                 provider callback (X-API-Key)
	GET  /api/admin/security/metrics            monitor counters
	GET  /api/admin/security/alerts             recent alerts
	GET  /api/admin/security/reputation/{ip}    IP reputation
	GET  /api/admin/performance                 tracker summary
	POST /api/admin/cache/invalidate            cache invalidation
*/
package server
