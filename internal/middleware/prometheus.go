// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/gigmarket/internal/metrics"
)

// Prometheus records request count, duration and in-flight gauge. Paths are
// labeled by route class so label cardinality stays bounded.
func Prometheus(routes *RouteTable) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metrics.TrackActiveRequest(true)
			defer metrics.TrackActiveRequest(false)

			start := time.Now()
			rec := newResponseRecorder(w)

			next.ServeHTTP(rec, r)

			metrics.RecordAPIRequest(
				r.Method,
				routes.ClassName(r.URL.Path),
				strconv.Itoa(rec.status),
				time.Since(start),
			)
		})
	}
}
