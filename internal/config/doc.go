// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

/*
Package config loads Gigmarket configuration with Koanf v2.

Sources are layered: struct defaults, then an optional YAML file
(CONFIG_PATH or config.yaml), then environment variables. Only environment
variables listed in the mapping table are read.

# Key Environment Variables

  - REDIS_URL: shared store; empty selects the in-process store
  - API_RATE_LIMIT_PER_MINUTE: generic API route class limit (default 100)
  - VALID_API_KEYS: comma-separated keys accepted on X-API-Key
  - ENVIRONMENT: production hides internal error details and starts sweepers
  - CORS_ORIGINS, PAYMENT_SCRIPT_ORIGINS: comma-separated origin lists
  - SESSION_JWT_SECRET: HS256 secret for session tokens (required in production)
  - DATABASE_URL: optional Postgres DSN for the read-path repository

Example:

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
