// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/gigmarket/internal/logging"
	"github.com/tomtom215/gigmarket/internal/perf"
)

// Response headers written by Timing.
const (
	HeaderResponseTime = "X-Response-Time"
	HeaderMemoryUsage  = "X-Memory-Usage"
)

// SlowRequestThreshold is the duration above which a request is logged.
const SlowRequestThreshold = time.Second

// Timing measures each request. The elapsed time and heap usage are set as
// headers just before the response header is sent, and the duration is
// recorded in tracker as api_<route class>_duration.
func Timing(tracker *perf.Tracker, routes *RouteTable) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newResponseRecorder(w)
			rec.onHeader(func(h http.Header) {
				h.Set(HeaderResponseTime, formatMillis(time.Since(start)))
				h.Set(HeaderMemoryUsage, strconv.FormatFloat(tracker.HeapUsageMB(), 'f', 2, 64)+"MB")
			})

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			class := routes.ClassName(r.URL.Path)
			tracker.Record(perf.PrefixAPI+class+perf.DurationSuffix, millis(duration), perf.UnitMilliseconds, map[string]any{
				"method": r.Method,
				"path":   r.URL.Path,
				"status": rec.status,
			})

			if duration > SlowRequestThreshold {
				logging.Ctx(r.Context()).Warn().
					Str("method", r.Method).
					Str("path", logging.SanitizeLogValue(r.URL.Path)).
					Int64("duration_ms", duration.Milliseconds()).
					Msg("Slow request detected")
			}
		})
	}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func formatMillis(d time.Duration) string {
	return strconv.FormatFloat(millis(d), 'f', 2, 64) + "ms"
}
