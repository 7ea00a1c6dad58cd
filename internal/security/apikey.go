// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package security

import (
	"crypto/subtle"
	"net/http"
)

// HeaderAPIKey carries the key checked by ValidateAPIKey.
const HeaderAPIKey = "X-API-Key"

// ValidateAPIKey reports whether the request's X-API-Key matches one of
// validKeys. Every configured key is compared so timing does not reveal
// which one matched.
func ValidateAPIKey(r *http.Request, validKeys []string) bool {
	key := r.Header.Get(HeaderAPIKey)
	if key == "" || len(validKeys) == 0 {
		return false
	}

	match := 0
	for _, valid := range validKeys {
		if valid == "" {
			continue
		}
		match |= subtle.ConstantTimeCompare([]byte(key), []byte(valid))
	}
	return match == 1
}
