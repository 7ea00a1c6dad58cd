// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/gigmarket/config.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultPaymentScriptOrigins are the payment processor origins allowed by the CSP.
var DefaultPaymentScriptOrigins = []string{
	"https://js.stripe.com",
	"https://checkout.stripe.com",
	"https://api.stripe.com",
}

// defaultConfig returns a Config struct with all default values.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        3000,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Store: StoreConfig{
			RedisURL:  "",
			OpTimeout: 2 * time.Second,
		},
		Database: DatabaseConfig{
			URL:             "",
			MaxOpenConns:    20,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Cache: CacheConfig{
			DefaultTTL:    time.Hour,
			SweepInterval: 5 * time.Minute,
		},
		Security: SecurityConfig{
			APIRatePerMinute:     100,
			ValidAPIKeys:         []string{},
			CORSOrigins:          []string{"*"},
			PaymentScriptOrigins: DefaultPaymentScriptOrigins,
			SweepInterval:        time.Hour,
			PagerRatePerMinute:   6,
		},
		Session: SessionConfig{
			JWTSecret:  "",
			TTL:        24 * time.Hour,
			CookieName: "session",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration with layered sources:
//  1. Defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// REDIS_URL -> store.redis_url, API_RATE_LIMIT_PER_MINUTE -> security.api_rate_per_minute
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file found, or empty string.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths are parsed as comma-separated slices.
var sliceConfigPaths = []string{
	"security.valid_api_keys",
	"security.cors_origins",
	"security.payment_script_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings; YAML lists are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Shared store
	"redis_url":        "store.redis_url",
	"redis_op_timeout": "store.op_timeout",

	// Database
	"database_url":               "database.url",
	"database_max_open_conns":    "database.max_open_conns",
	"database_conn_max_lifetime": "database.conn_max_lifetime",

	// Cache
	"cache_default_ttl":    "cache.default_ttl",
	"cache_sweep_interval": "cache.sweep_interval",

	// Security
	"api_rate_limit_per_minute": "security.api_rate_per_minute",
	"valid_api_keys":            "security.valid_api_keys",
	"cors_origins":              "security.cors_origins",
	"payment_script_origins":    "security.payment_script_origins",
	"security_sweep_interval":   "security.sweep_interval",
	"pager_rate_per_minute":     "security.pager_rate_per_minute",

	// Session
	"session_jwt_secret":  "session.jwt_secret",
	"session_ttl":         "session.ttl",
	"session_cookie_name": "session.cookie_name",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unmapped variables return "" and are skipped so unrelated environment
// does not pollute the config.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
