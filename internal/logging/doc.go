// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

// Package logging provides zerolog-based structured logging for Gigmarket.
//
// JSON output is used in production and a console writer in development.
// A single global logger is configured once at startup:
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("limiter", "payment").Msg("Rate limiter ready")
//	logging.Error().Err(err).Str("key", key).Msg("Cache set failed")
//
// # Request Context
//
// The request id middleware stores the id in the request context. Use Ctx to
// get a logger that carries it:
//
//	logging.Ctx(r.Context()).Warn().Msg("Role gate denied request")
//
// # Security Events
//
// SecurityLogger emits sanitized, single-line security events (suspicious
// requests, CSRF failures, role gate denials). Tokens, user ids and emails
// are masked and control characters in attacker-supplied values are
// replaced before they reach the log stream. These lines are distinct from
// the persisted alerts recorded by the monitor package.
//
// # slog Adapter
//
// NewSlogLogger returns a *slog.Logger backed by zerolog, used by the
// supervisor tree through sutureslog.
package logging
