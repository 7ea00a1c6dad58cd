// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package logging

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
)

// SecurityEvent is a transient security log line. Persisted alerts live in
// the monitor package; this is only what ends up in the log stream.
type SecurityEvent struct {
	// Event is the type of event (e.g., "suspicious_request", "csrf_failed").
	Event string
	// UserID is the user's identifier (if known).
	UserID string
	// Role is the session role (if known).
	Role string
	// IPAddress is the client's IP address.
	IPAddress string
	// UserAgent is the client's user agent (truncated).
	UserAgent string
	// Method and Path describe the request that triggered the event.
	Method string
	Path   string
	// Success indicates if the operation was successful.
	Success bool
	// Error is the error message if the operation failed.
	Error string
	// Details contains additional sanitized details.
	Details map[string]string
}

// SecurityLogger writes sanitized security events.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a new security logger.
func NewSecurityLogger() *SecurityLogger {
	return NewSecurityLoggerWithLogger(Logger())
}

// NewSecurityLoggerWithLogger creates a security logger with a custom zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{
		logger: logger.With().Str("component", "security").Logger(),
	}
}

// LogEvent logs a security event with automatic sanitization.
// Successful events are logged at info, failures at warn.
func (l *SecurityLogger) LogEvent(event *SecurityEvent) {
	var e *zerolog.Event
	if event.Success {
		e = l.logger.Info().Str("status", "success")
	} else {
		e = l.logger.Warn().Str("status", "failed")
	}
	e = e.Str("event", event.Event)

	if event.UserID != "" {
		e = e.Str("user_id", SanitizeUserID(event.UserID))
	}
	if event.Role != "" {
		e = e.Str("role", event.Role)
	}
	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.UserAgent != "" {
		e = e.Str("user_agent", SanitizeLogValue(truncateString(event.UserAgent, 100)))
	}
	if event.Method != "" {
		e = e.Str("method", event.Method)
	}
	if event.Path != "" {
		e = e.Str("path", SanitizeLogValue(truncateString(event.Path, 200)))
	}
	if event.Error != "" && !event.Success {
		e = e.Str("error", SanitizeError(event.Error))
	}

	for k, v := range event.Details {
		e = e.Str(k, SanitizeValue(k, v))
	}

	e.Msg("security event")
}

// LogSuspiciousRequest logs a request rejected by pattern inspection.
func (l *SecurityLogger) LogSuspiciousRequest(ip, userAgent, method, path, reason string) {
	l.LogEvent(&SecurityEvent{
		Event:     "suspicious_request",
		IPAddress: ip,
		UserAgent: userAgent,
		Method:    method,
		Path:      path,
		Details:   map[string]string{"reason": reason},
	})
}

// LogCSRFFailure logs a CSRF validation failure.
func (l *SecurityLogger) LogCSRFFailure(ip, userAgent, method, path string) {
	l.LogEvent(&SecurityEvent{
		Event:     "csrf_failed",
		IPAddress: ip,
		UserAgent: userAgent,
		Method:    method,
		Path:      path,
	})
}

// LogRateLimited logs a request denied by a rate limiter.
func (l *SecurityLogger) LogRateLimited(ip, limiter, path string, limit int) {
	l.LogEvent(&SecurityEvent{
		Event:     "rate_limited",
		IPAddress: ip,
		Path:      path,
		Details: map[string]string{
			"limiter": limiter,
			"limit":   strconv.Itoa(limit),
		},
	})
}

// LogAccessDenied logs a role gate denial with the required and actual roles.
func (l *SecurityLogger) LogAccessDenied(userID, role, ip, path string, required []string) {
	l.LogEvent(&SecurityEvent{
		Event:     "access_denied",
		UserID:    userID,
		Role:      role,
		IPAddress: ip,
		Path:      path,
		Details:   map[string]string{"required_roles": strings.Join(required, ",")},
	})
}

// LogUnauthenticated logs a request that required a session but had none.
func (l *SecurityLogger) LogUnauthenticated(ip, method, path string) {
	l.LogEvent(&SecurityEvent{
		Event:     "unauthenticated",
		IPAddress: ip,
		Method:    method,
		Path:      path,
	})
}

// LogInvalidAPIKey logs a rejected API key.
func (l *SecurityLogger) LogInvalidAPIKey(ip, path, key string) {
	l.LogEvent(&SecurityEvent{
		Event:     "invalid_api_key",
		IPAddress: ip,
		Path:      path,
		Details:   map[string]string{"api_key": key},
	})
}

// LogRequest logs a request on a route class that audits all traffic.
func (l *SecurityLogger) LogRequest(ip, userAgent, method, path string) {
	l.LogEvent(&SecurityEvent{
		Event:     "request",
		IPAddress: ip,
		UserAgent: userAgent,
		Method:    method,
		Path:      path,
		Success:   true,
	})
}

// SanitizeToken masks a token, showing only first and last 4 characters.
// Example: "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..." -> "eyJh...kpXV"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeUserID masks a user ID for privacy.
// Example: "user-12345678" -> "user...5678"
func SanitizeUserID(userID string) string {
	if userID == "" {
		return ""
	}
	if len(userID) <= 8 {
		return "***"
	}
	return userID[:4] + "..." + userID[len(userID)-4:]
}

// SanitizeEmail masks an email address.
// Example: "john.doe@example.com" -> "jo***@example.com"
func SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}

	atIndex := strings.Index(email, "@")
	if atIndex <= 0 {
		return "***"
	}

	localPart := email[:atIndex]
	domain := email[atIndex:]

	if len(localPart) <= 2 {
		return "***" + domain
	}
	return localPart[:2] + "***" + domain
}

var sensitiveErrorWords = []string{
	"password",
	"secret",
	"token",
	"key",
	"bearer",
	"authorization",
	"cookie",
}

// SanitizeError removes potentially sensitive information from error messages.
func SanitizeError(err string) string {
	lowerErr := strings.ToLower(err)
	for _, pattern := range sensitiveErrorWords {
		if strings.Contains(lowerErr, pattern) {
			return "credential error"
		}
	}
	return SanitizeLogValue(truncateString(err, 200))
}

var sensitiveKeys = map[string]bool{
	"access_token":  true,
	"token":         true,
	"csrf_token":    true,
	"session_token": true,
	"password":      true,
	"secret":        true,
	"api_key":       true,
	"apikey":        true,
	"authorization": true,
	"cookie":        true,
	"session":       true,
}

// SanitizeValue sanitizes a value based on its key name.
func SanitizeValue(key, value string) string {
	if sensitiveKeys[strings.ToLower(key)] {
		return SanitizeToken(value)
	}
	if strings.Contains(value, "@") && strings.Contains(value, ".") {
		return SanitizeEmail(value)
	}
	return SanitizeLogValue(value)
}

// SanitizeLogValue replaces control characters so attacker-supplied input
// (paths, user agents) cannot forge extra log lines.
func SanitizeLogValue(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return '_'
		}
		return r
	}, s)
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
