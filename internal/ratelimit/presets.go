// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package ratelimit

import "time"

// Route-class presets, narrowest first.
var (
	Auth = Config{
		Name:    "auth",
		Window:  15 * time.Minute,
		Max:     5,
		Message: "Too many requests: authentication attempts exceeded, please try again later.",
	}
	Strict    = Config{Name: "strict", Window: time.Minute, Max: 3}
	Payment   = Config{Name: "payment", Window: time.Minute, Max: 5}
	Upload    = Config{Name: "upload", Window: time.Minute, Max: 10}
	Messaging = Config{Name: "messaging", Window: time.Minute, Max: 30}
	Admin     = Config{Name: "admin", Window: time.Minute, Max: 50}
	Public    = Config{Name: "public", Window: time.Minute, Max: 200}
)

// DefaultAPIPerMinute is the generic API class limit when none is configured.
const DefaultAPIPerMinute = 100

// API returns the generic API class with the configured per-minute limit.
func API(perMinute int) Config {
	if perMinute <= 0 {
		perMinute = DefaultAPIPerMinute
	}
	return Config{Name: "api", Window: time.Minute, Max: perMinute}
}
