// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package security

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/tomtom215/gigmarket/internal/httputil"
	"github.com/tomtom215/gigmarket/internal/logging"
	"github.com/tomtom215/gigmarket/internal/metrics"
)

// CSRF header names. Both must be present and equal on mutating requests.
const (
	HeaderCSRFToken    = "X-CSRF-Token"
	HeaderSessionToken = "X-Session-Token"
)

// Rejection reasons, also used as metric labels.
const (
	ReasonSuspiciousUserAgent = "suspicious_user_agent"
	ReasonSuspiciousURL       = "suspicious_url"
	ReasonCSRF                = "csrf_invalid"
)

// Rejection describes why a request was stopped. A nil *Rejection means
// the request may continue.
type Rejection struct {
	Status   int
	Reason   string
	Message  string
	Category Category
	Pattern  string
}

// Write sends the rejection as a JSON error body.
func (r *Rejection) Write(w http.ResponseWriter) {
	httputil.WriteError(w, r.Status, r.Message)
}

// Inspector is the stateless request analyzer. It holds only the prebuilt
// signature automata and a security logger, so one instance serves all requests.
type Inspector struct {
	userAgents *Matcher
	urls       *Matcher
	log        *logging.SecurityLogger
}

// NewInspector builds an inspector with the built-in signature sets.
func NewInspector() *Inspector {
	return &Inspector{
		userAgents: NewMatcher(userAgentSignatures),
		urls:       NewMatcher(urlSignatures),
		log:        logging.NewSecurityLogger(),
	}
}

// Inspect checks the user agent and URL for suspicious signatures.
func (i *Inspector) Inspect(r *http.Request) *Rejection {
	ua := r.UserAgent()
	if hit, ok := i.userAgents.First(ua); ok {
		return i.reject(r, ReasonSuspiciousUserAgent, hit)
	}

	raw := r.URL.RequestURI()
	if hit, ok := i.urls.First(raw); ok {
		return i.reject(r, ReasonSuspiciousURL, hit)
	}
	if decoded := unescapeLenient(raw); decoded != raw {
		if hit, ok := i.urls.First(decoded); ok {
			return i.reject(r, ReasonSuspiciousURL, hit)
		}
	}
	return nil
}

// unescapeLenient decodes valid %XX escapes and '+' and keeps malformed
// escapes as literal text, so one bad escape cannot hide the rest of the URI.
func unescapeLenient(s string) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	}
	return c - '0'
}

// InspectCSRF validates the CSRF token pair for mutating methods.
func (i *Inspector) InspectCSRF(r *http.Request) *Rejection {
	if ValidateCSRF(r) {
		return nil
	}

	metrics.RecordSecurityBlock(ReasonCSRF)
	i.log.LogCSRFFailure(ClientIP(r), r.UserAgent(), r.Method, r.URL.Path)
	return &Rejection{
		Status:  http.StatusForbidden,
		Reason:  ReasonCSRF,
		Message: "Invalid CSRF token",
	}
}

func (i *Inspector) reject(r *http.Request, reason string, hit Hit) *Rejection {
	metrics.RecordSecurityBlock(reason)
	i.log.LogSuspiciousRequest(ClientIP(r), r.UserAgent(), r.Method, r.URL.Path,
		string(hit.Category)+": "+hit.Pattern)

	return &Rejection{
		Status:   http.StatusForbidden,
		Reason:   reason,
		Message:  "Forbidden",
		Category: hit.Category,
		Pattern:  hit.Pattern,
	}
}

// IsMutating reports whether method changes server state.
func IsMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// ValidateCSRF reports whether r passes the double-token check. Safe methods
// always pass.
func ValidateCSRF(r *http.Request) bool {
	if !IsMutating(r.Method) {
		return true
	}

	csrf := r.Header.Get(HeaderCSRFToken)
	session := r.Header.Get(HeaderSessionToken)
	if csrf == "" || session == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(csrf), []byte(session)) == 1
}
