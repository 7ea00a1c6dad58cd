// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateSession(); err != nil {
		return err
	}
	return c.validateLogging()
}

var validEnvironments = map[string]bool{
	"development": true,
	"test":        true,
	"staging":     true,
	"production":  true,
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if !validEnvironments[strings.ToLower(c.Server.Environment)] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, test, staging, production")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.DefaultTTL <= 0 {
		return fmt.Errorf("CACHE_DEFAULT_TTL must be positive")
	}
	if c.Cache.SweepInterval <= 0 {
		return fmt.Errorf("CACHE_SWEEP_INTERVAL must be positive")
	}
	return nil
}

// Rate limit constants
const (
	minAPIRatePerMinute = 1
	maxAPIRatePerMinute = 100000
	minSweepInterval    = time.Minute
)

func (c *Config) validateSecurity() error {
	if c.Security.APIRatePerMinute < minAPIRatePerMinute || c.Security.APIRatePerMinute > maxAPIRatePerMinute {
		return fmt.Errorf("API_RATE_LIMIT_PER_MINUTE must be between %d and %d", minAPIRatePerMinute, maxAPIRatePerMinute)
	}
	if c.Security.SweepInterval < minSweepInterval {
		return fmt.Errorf("SECURITY_SWEEP_INTERVAL must be at least %v", minSweepInterval)
	}
	if c.Security.PagerRatePerMinute < 1 {
		return fmt.Errorf("PAGER_RATE_PER_MINUTE must be at least 1")
	}
	if c.IsProduction() && c.hasWildcardCORS() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production. " +
			"Set specific origins: CORS_ORIGINS=https://yourdomain.com")
	}
	if c.IsProduction() && !c.hasExplicitCORS() {
		return fmt.Errorf("CORS_ORIGINS must name at least one origin in production")
	}
	return nil
}

func (c *Config) hasExplicitCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if strings.TrimSpace(origin) != "" {
			return true
		}
	}
	return false
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validateSession() error {
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Session.JWTSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("SESSION_JWT_SECRET is required when ENVIRONMENT=production")
		}
		return nil
	}
	if len(c.Session.JWTSecret) < 32 {
		return fmt.Errorf("SESSION_JWT_SECRET must be at least 32 characters")
	}
	return nil
}

var (
	validLogLevels  = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"json": true, "console": true}
)

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}
