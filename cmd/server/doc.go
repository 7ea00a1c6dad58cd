// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

/*
Package main is the entry point for the Gigmarket server.

The server fronts the freelance marketplace with the request pipeline
(request id, CORS, rate limiting, pattern inspection, CSRF, session and role
checks, security headers, timing) and serves the cached marketplace reads,
payment endpoints and the admin security views.

# Process Layout

Long-running work runs under a Suture v4 supervisor tree:

	RootSupervisor ("gigmarket")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   ├── store-sweeper      (in-process store only)
	│   ├── session-sweeper    (when a JWT secret is set)
	│   └── monitor-cleanup    (production only)
	└── APISupervisor ("api-layer")
	    └── http-server

A crashing sweeper is restarted without touching the HTTP server.

# Configuration

Koanf v2 layers built-in defaults, an optional config.yaml and environment
variables. The most common variables:

	HTTP_PORT                  listen port (default 3000)
	ENVIRONMENT                development, test, staging or production
	REDIS_URL                  shared store; unset uses the in-process store
	DATABASE_URL               Postgres for the read endpoints; unset answers 503
	SESSION_JWT_SECRET         HS256 secret; unset makes every request anonymous
	API_RATE_LIMIT_PER_MINUTE  generic /api budget (default 100)
	VALID_API_KEYS             comma-separated webhook keys
	CORS_ORIGINS               comma-separated allowed origins
	LOG_LEVEL, LOG_FORMAT      zerolog level and json|console

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests for up to ten seconds, then the store and database are closed.
*/
package main
