// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gigmarket_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route_class", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gigmarket_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route_class"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gigmarket_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Rate Limiter Metrics
	RateLimitDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gigmarket_rate_limit_decisions_total",
			Help: "Rate limiter decisions by limiter and outcome (allowed, denied, fail_open)",
		},
		[]string{"limiter", "outcome"},
	)

	// Security Metrics
	SecurityBlocks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gigmarket_security_blocks_total",
			Help: "Requests short-circuited by the security inspector or role gate",
		},
		[]string{"reason"},
	)

	SecurityAlerts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gigmarket_security_alerts_total",
			Help: "Security alerts recorded by type and severity",
		},
		[]string{"type", "severity"},
	)

	SecurityCleanupRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gigmarket_security_cleanup_removed_total",
			Help: "Stale alert list entries removed by the cleanup sweep",
		},
	)

	// Error Taxonomy Metrics
	APIErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gigmarket_api_errors_total",
			Help: "Classified API errors by type and severity",
		},
		[]string{"type", "severity"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gigmarket_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gigmarket_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gigmarket_cache_errors_total",
			Help: "Cache backend errors swallowed by the cache manager",
		},
		[]string{"operation"},
	)

	// Store Metrics
	StoreCircuitState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gigmarket_store_circuit_breaker_state",
			Help: "Shared store circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gigmarket_store_operation_duration_seconds",
			Help:    "Shared store operation duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5},
		},
		[]string{"backend", "operation"},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gigmarket_db_query_duration_seconds",
			Help:    "Duration of read-path database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gigmarket_db_query_errors_total",
			Help: "Total number of read-path database query errors",
		},
		[]string{"query"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, routeClass, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, routeClass, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, routeClass).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// Rate limit outcomes
const (
	OutcomeAllowed  = "allowed"
	OutcomeDenied   = "denied"
	OutcomeFailOpen = "fail_open"
)

// RecordRateLimit records a rate limiter decision.
func RecordRateLimit(limiter, outcome string) {
	RateLimitDecisions.WithLabelValues(limiter, outcome).Inc()
}

// RecordSecurityBlock records a request rejected by the pipeline.
func RecordSecurityBlock(reason string) {
	SecurityBlocks.WithLabelValues(reason).Inc()
}

// RecordSecurityAlert records a persisted security alert.
func RecordSecurityAlert(alertType, severity string) {
	SecurityAlerts.WithLabelValues(alertType, severity).Inc()
}

// RecordAPIError records a classified error.
func RecordAPIError(errType, severity string) {
	APIErrors.WithLabelValues(errType, severity).Inc()
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		CacheHits.Inc()
		return
	}
	CacheMisses.Inc()
}

// RecordCacheError records a swallowed cache backend error.
func RecordCacheError(operation string) {
	CacheErrors.WithLabelValues(operation).Inc()
}

// RecordStoreOperation records the duration of a shared store call.
func RecordStoreOperation(backend, operation string, duration time.Duration) {
	StoreOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// RecordDBQuery records a read-path database query metric
func RecordDBQuery(query string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(query).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(query).Inc()
	}
}
