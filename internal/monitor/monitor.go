// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package monitor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/gigmarket/internal/logging"
	"github.com/tomtom215/gigmarket/internal/metrics"
	"github.com/tomtom215/gigmarket/internal/security"
	"github.com/tomtom215/gigmarket/internal/store"
)

const (
	alertTTL      = 30 * 24 * time.Hour
	metricsTTL    = 24 * time.Hour
	reputationTTL = 24 * time.Hour

	// MaxListLength bounds the global and per-severity alert lists.
	MaxListLength = 1000
	maxReasons    = 10

	keyAlertPrefix      = "security:alert:"
	keyAlerts           = "security:alerts"
	keyMetrics          = "security:metrics"
	keyBruteForcePrefix = "security:bruteforce:"
	keyReputationPrefix = "security:reputation:"
)

// Monitor is the persistent security ledger over the shared store.
//
// The metrics document is updated read-modify-write without locking;
// concurrent alerts may lose increments (last writer wins).
type Monitor struct {
	store store.Store
	now   func() time.Time
	log   zerolog.Logger
}

// New creates a monitor using the wall clock.
func New(s store.Store) *Monitor {
	return NewWithClock(s, time.Now)
}

// NewWithClock creates a monitor with an injectable clock.
func NewWithClock(s store.Store, now func() time.Time) *Monitor {
	return &Monitor{
		store: s,
		now:   now,
		log:   logging.WithComponent("security_monitor"),
	}
}

func alertKey(id string) string { return keyAlertPrefix + id }

func listKey(sev Severity) string {
	if sev == "" {
		return keyAlerts
	}
	return keyAlerts + ":" + string(sev)
}

func newAlertID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d-%s", now.UnixMilli(), random)
}

// RecordAlert persists an alert derived from r and updates the rolling
// metrics. Critical alerts also lower the source IP's reputation. The
// alert is returned even when a secondary write failed.
func (m *Monitor) RecordAlert(ctx context.Context, r *http.Request, typ AlertType, sev Severity, details map[string]any) (*Alert, error) {
	if !sev.Valid() {
		sev = SeverityMedium
	}
	now := m.now()

	alert := &Alert{
		ID:        newAlertID(now),
		Timestamp: now.UTC(),
		Severity:  sev,
		Type:      typ,
		Details:   details,
	}
	if r != nil {
		alert.IP = security.ClientIP(r)
		alert.UserAgent = r.UserAgent()
		alert.Method = r.Method
		alert.Path = r.URL.Path
		alert.UserID = logging.UserIDFromContext(r.Context())
	}

	data, err := json.Marshal(alert)
	if err != nil {
		return nil, fmt.Errorf("encode alert: %w", err)
	}
	if err := m.store.Set(ctx, alertKey(alert.ID), string(data), alertTTL); err != nil {
		return nil, fmt.Errorf("store alert: %w", err)
	}

	var errs []error
	for _, list := range []string{listKey(""), listKey(sev)} {
		if _, err := m.store.LPush(ctx, list, alert.ID); err != nil {
			errs = append(errs, fmt.Errorf("index alert in %s: %w", list, err))
			continue
		}
		if err := m.store.LTrim(ctx, list, 0, MaxListLength-1); err != nil {
			errs = append(errs, fmt.Errorf("trim %s: %w", list, err))
		}
	}

	if err := m.updateMetrics(ctx, typ); err != nil {
		errs = append(errs, err)
	}

	metrics.RecordSecurityAlert(string(typ), string(sev))
	m.logAlert(alert)

	if sev == SeverityCritical && alert.IP != "" {
		if _, err := m.UpdateIPReputation(ctx, alert.IP, string(typ), sev); err != nil {
			errs = append(errs, err)
		}
	}

	return alert, errors.Join(errs...)
}

func (m *Monitor) logAlert(a *Alert) {
	var e *zerolog.Event
	switch a.Severity {
	case SeverityCritical:
		e = m.log.Error()
	case SeverityHigh:
		e = m.log.Warn()
	default:
		e = m.log.Info()
	}
	e.Str("alert_id", a.ID).
		Str("type", string(a.Type)).
		Str("severity", string(a.Severity)).
		Str("ip", a.IP).
		Str("path", logging.SanitizeLogValue(a.Path)).
		Msg("Security alert recorded")
}

func (m *Monitor) updateMetrics(ctx context.Context, typ AlertType) error {
	current, err := m.Metrics(ctx)
	if err != nil {
		return err
	}

	current.TotalRequests++
	switch typ {
	case AlertRateLimitExceeded:
		current.RateLimitedRequests++
		current.BlockedRequests++
	case AlertSuspiciousActivity, AlertSQLInjection, AlertXSS:
		current.SuspiciousActivity++
		current.BlockedRequests++
	case AlertAuthFailure, AlertBruteForce, AlertInvalidToken:
		current.AuthFailures++
	}
	current.LastUpdated = m.now().UTC()

	data, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	if err := m.store.Set(ctx, keyMetrics, string(data), metricsTTL); err != nil {
		return fmt.Errorf("store metrics: %w", err)
	}
	return nil
}

// Metrics returns the rolling counters, zeroed when none are stored.
func (m *Monitor) Metrics(ctx context.Context) (Metrics, error) {
	var out Metrics
	raw, err := m.store.Get(ctx, keyMetrics)
	if errors.Is(err, store.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("load metrics: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		m.log.Warn().Err(err).Msg("Discarding corrupt security metrics")
		return Metrics{}, nil
	}
	return out, nil
}

// RecentAlerts returns up to limit alerts, newest first. An empty severity
// reads the global list. Entries whose record has expired are skipped.
func (m *Monitor) RecentAlerts(ctx context.Context, sev Severity, limit int) ([]Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	limit = min(limit, MaxListLength)

	ids, err := m.store.LRange(ctx, listKey(sev), 0, int64(limit-1))
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}

	alerts := make([]Alert, 0, len(ids))
	for _, id := range ids {
		raw, err := m.store.Get(ctx, alertKey(id))
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return alerts, fmt.Errorf("load alert %s: %w", id, err)
		}
		var a Alert
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			continue
		}
		alerts = append(alerts, a)
	}
	return alerts, nil
}
