// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package security

import (
	"net/http"
	"strings"
)

// DefaultPaymentOrigins are the payment processor's script and frame hosts.
var DefaultPaymentOrigins = []string{
	"https://js.stripe.com",
	"https://checkout.stripe.com",
	"https://api.stripe.com",
}

// HeaderConfig controls the generated security headers.
type HeaderConfig struct {
	// PaymentOrigins are allow-listed in script-src, frame-src and connect-src.
	PaymentOrigins []string
}

// ContentSecurityPolicy renders the policy for the configured origins.
func (c HeaderConfig) ContentSecurityPolicy() string {
	origins := c.PaymentOrigins
	if len(origins) == 0 {
		origins = DefaultPaymentOrigins
	}
	extra := " " + strings.Join(origins, " ")

	directives := []string{
		"default-src 'self'",
		"script-src 'self'" + extra,
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data: https:",
		"font-src 'self' data:",
		"connect-src 'self'" + extra,
		"frame-src" + extra,
		"frame-ancestors 'none'",
		"object-src 'none'",
		"base-uri 'self'",
		"form-action 'self'",
	}
	return strings.Join(directives, "; ")
}

// SecurityHeaders writes the fixed security header set into h. It is
// applied to every pipeline response, including rejections.
func SecurityHeaders(h http.Header, cfg HeaderConfig) {
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("X-XSS-Protection", "1; mode=block")
	h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
	h.Set("Content-Security-Policy", cfg.ContentSecurityPolicy())
	h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=(self)")
}
