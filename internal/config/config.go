// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Config is immutable after LoadWithKoanf() and safe for concurrent reads.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Store    StoreConfig    `koanf:"store"`
	Database DatabaseConfig `koanf:"database"`
	Cache    CacheConfig    `koanf:"cache"`
	Security SecurityConfig `koanf:"security"`
	Session  SessionConfig  `koanf:"session"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
	// Environment is one of development, test, staging or production.
	// Production hides internal error details and starts background sweepers.
	Environment string `koanf:"environment"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StoreConfig selects the shared key-value backend.
type StoreConfig struct {
	// RedisURL is either a redis:// URL or a plain host:port.
	// Empty selects the in-process store.
	RedisURL string `koanf:"redis_url"`
	// OpTimeout bounds each individual store call.
	OpTimeout time.Duration `koanf:"op_timeout"`
}

// UsesRedis reports whether a shared Redis backend is configured.
func (s StoreConfig) UsesRedis() bool {
	return s.RedisURL != ""
}

// DatabaseConfig holds the optional Postgres connection used by the read-path repository.
type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// CacheConfig holds cache manager settings.
type CacheConfig struct {
	DefaultTTL time.Duration `koanf:"default_ttl"`
	// SweepInterval is how often expired entries are purged from the in-process store.
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// SecurityConfig holds request pipeline settings.
type SecurityConfig struct {
	APIRatePerMinute     int           `koanf:"api_rate_per_minute"`
	ValidAPIKeys         []string      `koanf:"valid_api_keys"`
	CORSOrigins          []string      `koanf:"cors_origins"`
	PaymentScriptOrigins []string      `koanf:"payment_script_origins"`
	SweepInterval        time.Duration `koanf:"sweep_interval"`
	PagerRatePerMinute   int           `koanf:"pager_rate_per_minute"`
}

// SessionConfig holds session token settings.
type SessionConfig struct {
	JWTSecret  string        `koanf:"jwt_secret"`
	TTL        time.Duration `koanf:"ttl"`
	CookieName string        `koanf:"cookie_name"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
