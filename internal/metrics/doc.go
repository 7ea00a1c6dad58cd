// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

// Package metrics declares the Prometheus collectors for the request
// pipeline: API traffic, rate limiter decisions, security blocks and alerts,
// classified errors, cache efficiency, shared store latency and read-path
// database queries. Collectors are registered on the default registry via
// promauto and exposed by the server at /metrics.
package metrics
