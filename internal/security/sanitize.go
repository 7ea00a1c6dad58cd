// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package security

import (
	"crypto/rand"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tomtom215/gigmarket/internal/validation"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// SanitizeString trims s, strips HTML tags and angle brackets, and truncates
// to maxLen runes. A maxLen <= 0 disables truncation.
func SanitizeString(s string, maxLen int) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	s = strings.TrimSpace(s)

	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		runes := []rune(s)
		s = strings.TrimSpace(string(runes[:maxLen]))
	}
	return s
}

// IsValidEmail reports whether s is a syntactically valid address.
func IsValidEmail(s string) bool {
	if len(s) > 254 {
		return false
	}
	return validation.GetValidator().Var(s, "required,email") == nil
}

// SanitizeURL returns the normalized URL when it is absolute http or https,
// and "" otherwise.
func SanitizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.String()
	}
	return ""
}

// GenerateToken returns 32 random bytes hex-encoded, used for CSRF token pairs.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
