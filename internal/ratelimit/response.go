// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/gigmarket/internal/httputil"
)

// Headers writes the X-RateLimit-* headers for info.
func Headers(w http.ResponseWriter, info Info) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(info.Reset, 10))
}

// RetryAfter returns the whole seconds until the window resets, at least 1.
func RetryAfter(info Info, now time.Time) int {
	secs := int(math.Ceil(info.ResetTime.Sub(now).Seconds()))
	return max(secs, 1)
}

// WriteDenied writes the 429 response with Retry-After.
func WriteDenied(w http.ResponseWriter, cfg Config, info Info, now time.Time) {
	msg := cfg.Message
	if msg == "" {
		msg = DefaultMessage
	}
	retry := RetryAfter(info, now)

	Headers(w, info)
	w.Header().Set("Retry-After", strconv.Itoa(retry))
	httputil.WriteJSON(w, http.StatusTooManyRequests, map[string]any{
		"error":      msg,
		"retryAfter": retry,
		"limit":      info.Limit,
		"resetTime":  info.ResetTime.UTC().Format(time.RFC3339),
	})
}
