// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package security

import (
	"net/http"
	"strings"

	"github.com/go-chi/httprate"
)

// UnknownClient is the identity used when no address can be derived.
const UnknownClient = "unknown"

// ClientIP returns the first hop of X-Forwarded-For, falling back to the
// True-Client-IP, X-Real-IP and RemoteAddr chain of httprate.KeyByRealIP.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	ip, err := httprate.KeyByRealIP(r)
	if err != nil || ip == "" {
		return UnknownClient
	}
	return ip
}
