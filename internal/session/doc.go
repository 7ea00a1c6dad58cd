// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

// Package session resolves the signed-in user of a request.
//
// Only what the request pipeline needs is modeled: a user id, a role and
// an expiry. Tokens are HS256 JWTs sent as a bearer token or in the
// "session" cookie.
package session
