// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

/*
Package ratelimit implements fixed-window request limiting over the shared store.

Counters live at

	ratelimit:<class>:<identity>:<floor(now/window)>

and expire one window after creation. A request first reads its counter;
at Max it is denied without incrementing, otherwise the counter is
incremented with IncrWithExpiry. When the store fails the request is
allowed and the failure logged (fail open).

Identity defaults to the client IP (first X-Forwarded-For hop, then the
httprate.KeyByRealIP chain). UserScoped rebinds it to "user:<id>".

Presets cover the route classes of the marketplace:

	Auth       5 / 15m
	Strict     3 / 1m
	Payment    5 / 1m
	Upload    10 / 1m
	Messaging 30 / 1m
	Admin     50 / 1m
	API(n)     n / 1m  (API_RATE_LIMIT_PER_MINUTE, default 100)
	Public   200 / 1m

Denials get 429 with X-RateLimit-Limit, X-RateLimit-Remaining,
X-RateLimit-Reset and Retry-After.
*/
package ratelimit
