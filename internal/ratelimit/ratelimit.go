// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/gigmarket/internal/logging"
	"github.com/tomtom215/gigmarket/internal/metrics"
	"github.com/tomtom215/gigmarket/internal/security"
	"github.com/tomtom215/gigmarket/internal/store"
)

// DefaultMessage is the 429 body text when a Config sets none.
const DefaultMessage = "Too many requests, please try again later."

// KeyFunc derives the client identity a window is counted against.
type KeyFunc func(r *http.Request) string

// Config describes one rate-limit class.
type Config struct {
	// Name namespaces the counters and labels metrics ("auth", "payment", ...).
	Name    string
	Window  time.Duration
	Max     int
	KeyFunc KeyFunc // nil selects the client IP
	Message string
}

// Info is the client-visible state of a window.
type Info struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Reset     int64     `json:"reset"` // unix seconds
	ResetTime time.Time `json:"resetTime"`
}

// Result is the outcome of a single Allow call.
type Result struct {
	Allowed bool
	Info    Info
	// FailOpen is set when the store failed and the request was let through.
	FailOpen bool
}

// Limiter is a fixed-window counter over the shared store.
//
// Each request reads the current window's counter and is denied without
// incrementing when it has reached Max; otherwise the counter is atomically
// incremented (its TTL set on creation). Two concurrent requests may both
// read Max-1 and both be admitted. A client can also be admitted up to
// 2*Max-1 times across a window boundary.
type Limiter struct {
	store  store.Store
	now    func() time.Time
	log    zerolog.Logger
	secLog *logging.SecurityLogger
}

// New creates a limiter using the wall clock.
func New(s store.Store) *Limiter {
	return NewWithClock(s, time.Now)
}

// NewWithClock creates a limiter with an injectable clock.
func NewWithClock(s store.Store, now func() time.Time) *Limiter {
	return &Limiter{
		store:  s,
		now:    now,
		log:    logging.WithComponent("ratelimit"),
		secLog: logging.NewSecurityLogger(),
	}
}

// Allow counts r against cfg. The returned error is informational: when it
// is non-nil the request has already been allowed (fail open).
func (l *Limiter) Allow(ctx context.Context, r *http.Request, cfg Config) (Result, error) {
	window := cfg.Window
	switch {
	case window <= 0:
		window = time.Minute
	case window < time.Millisecond:
		// Windows are indexed in whole milliseconds.
		window = time.Millisecond
	}

	now := l.now()
	windowMs := window.Milliseconds()
	index := now.UnixMilli() / windowMs
	resetTime := time.UnixMilli((index + 1) * windowMs)

	info := Info{
		Limit:     cfg.Max,
		Reset:     int64(math.Ceil(float64(resetTime.UnixMilli()) / 1000)),
		ResetTime: resetTime,
	}

	key := fmt.Sprintf("ratelimit:%s:%s:%d", cfg.Name, identity(r, cfg), index)

	current, err := l.count(ctx, key)
	if err != nil {
		return l.failOpen(cfg, info, key, err)
	}

	if current >= int64(cfg.Max) {
		metrics.RecordRateLimit(cfg.Name, metrics.OutcomeDenied)
		return Result{Allowed: false, Info: info}, nil
	}

	n, err := l.store.IncrWithExpiry(ctx, key, window)
	if err != nil {
		return l.failOpen(cfg, info, key, err)
	}

	info.Remaining = max(cfg.Max-int(n), 0)
	metrics.RecordRateLimit(cfg.Name, metrics.OutcomeAllowed)
	return Result{Allowed: true, Info: info}, nil
}

func (l *Limiter) count(ctx context.Context, key string) (int64, error) {
	raw, err := l.store.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (l *Limiter) failOpen(cfg Config, info Info, key string, err error) (Result, error) {
	metrics.RecordRateLimit(cfg.Name, metrics.OutcomeFailOpen)
	l.log.Error().Err(err).Str("limiter", cfg.Name).Str("key", key).Msg("Rate limit store failed, allowing request")
	info.Remaining = cfg.Max
	return Result{Allowed: true, Info: info, FailOpen: true}, fmt.Errorf("rate limit %s: %w", cfg.Name, err)
}

// Middleware enforces cfg on every request reaching the wrapped handler.
// It is meant for individual routes; the pipeline applies route classes itself.
func (l *Limiter) Middleware(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, _ := l.Allow(r.Context(), r, cfg)
			Headers(w, res.Info)
			if !res.Allowed {
				l.Deny(w, r, cfg, res.Info)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Deny logs the denial and writes the 429 response.
func (l *Limiter) Deny(w http.ResponseWriter, r *http.Request, cfg Config, info Info) {
	l.secLog.LogRateLimited(security.ClientIP(r), cfg.Name, r.URL.Path, cfg.Max)
	WriteDenied(w, cfg, info, l.now())
}

func identity(r *http.Request, cfg Config) string {
	if cfg.KeyFunc != nil {
		if id := cfg.KeyFunc(r); id != "" {
			return id
		}
	}
	return security.ClientIP(r)
}

// UserScoped returns a copy of cfg that counts per account. Requests without
// a user fall back to the client IP.
func UserScoped(cfg Config, userID func(r *http.Request) string) Config {
	cfg.KeyFunc = func(r *http.Request) string {
		if id := userID(r); id != "" {
			return "user:" + id
		}
		return ""
	}
	return cfg
}
