// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package monitor

import "time"

// AlertType enumerates the security events the monitor persists.
type AlertType string

const (
	AlertRateLimitExceeded   AlertType = "rate_limit_exceeded"
	AlertSuspiciousActivity  AlertType = "suspicious_activity"
	AlertSQLInjection        AlertType = "sql_injection_attempt"
	AlertXSS                 AlertType = "xss_attempt"
	AlertAuthFailure         AlertType = "auth_failure"
	AlertBruteForce          AlertType = "brute_force_attempt"
	AlertInvalidToken        AlertType = "invalid_token"
	AlertUnauthorizedAccess  AlertType = "unauthorized_access"
	AlertCSRFViolation       AlertType = "csrf_violation"
	AlertPrivilegeEscalation AlertType = "privilege_escalation"
)

// Severity of an alert. The same four levels are used by the error taxonomy.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists every level, lowest first.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Valid reports whether s is one of the four known levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Alert is a persisted security event. Alerts are immutable once written.
type Alert struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Severity  Severity       `json:"severity"`
	Type      AlertType      `json:"type"`
	IP        string         `json:"ip"`
	UserAgent string         `json:"userAgent,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	Method    string         `json:"method,omitempty"`
	Path      string         `json:"path,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// Metrics is the rolling counter document. It resets once no alert has
// been recorded for metricsTTL.
type Metrics struct {
	TotalRequests       int64     `json:"totalRequests"`
	BlockedRequests     int64     `json:"blockedRequests"`
	RateLimitedRequests int64     `json:"rateLimitedRequests"`
	SuspiciousActivity  int64     `json:"suspiciousActivity"`
	AuthFailures        int64     `json:"authFailures"`
	LastUpdated         time.Time `json:"lastUpdated"`
}

// BruteForceStatus is the result of CheckBruteForce.
type BruteForceStatus struct {
	IsBlocked bool       `json:"isBlocked"`
	Attempts  int64      `json:"attempts"`
	ResetTime *time.Time `json:"resetTime,omitempty"`
}

// Reputation bands.
const (
	BandGood       = "good"
	BandSuspicious = "suspicious"
	BandBad        = "bad"
)

// Reputation is the trust score of a client IP.
type Reputation struct {
	IP          string    `json:"ip"`
	Score       int       `json:"score"`
	Band        string    `json:"band"`
	Reasons     []string  `json:"reasons"`
	LastUpdated time.Time `json:"lastUpdated"`
}
