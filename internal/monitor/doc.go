// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

/*
Package monitor is the persistent security ledger.

Keys in the shared store:

	security:alert:<id>              alert record, 30 day TTL
	security:alerts                  global id list, newest first, capped at 1000
	security:alerts:<severity>       per-severity id list, same cap
	security:metrics                 rolling counters, 24h TTL refreshed per alert
	security:bruteforce:<ip>:<id>    failed attempt counter, TTL = window
	security:reputation:<ip>         reputation document, 24h TTL

Alerts are written by the error handler (AUTHENTICATION, AUTHORIZATION and
RATE_LIMIT errors), the pipeline (suspicious requests, CSRF failures, role
denials) and the login flow (brute force). Critical alerts also cost the
source IP 50 reputation points.

Cleanup is periodic housekeeping that drops list entries whose record has
expired; it runs under the supervisor tree in production.
*/
package monitor
