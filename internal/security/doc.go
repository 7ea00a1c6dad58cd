// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

// Package security is the stateless request inspector.
//
// Inspector.Inspect matches the user agent against scanner and bot
// signatures and the request URI, raw and percent-decoded, against path
// traversal, SQL injection and XSS signatures. All signatures of a set are
// searched in one pass by an Aho-Corasick automaton built at startup. A match
// yields a 403 *Rejection and a security log line; persisted alerts are the
// monitor package's job.
//
// The package also provides the CSRF double-token check, the fixed security
// header set, input sanitizers, the optional API key check and ClientIP,
// which every other stage uses to derive the client identity.
package security
