// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package server

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/gigmarket/internal/apierror"
)

const maxBodyBytes = 1 << 20

// intParam returns the integer query value, def when absent. A malformed
// value yields -1 so struct validation rejects it.
func intParam(q url.Values, key string, def int) int {
	raw := q.Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}

// floatParam returns the float query value, 0 when absent and -1 when
// malformed.
func floatParam(q url.Values, key string) float64 {
	raw := q.Get(key)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return -1
	}
	return f
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return apierror.Validation("Unreadable request body", nil).WithCause(err)
	}
	if len(body) > maxBodyBytes {
		return apierror.Validation("Request body too large", nil).WithStatus(http.StatusRequestEntityTooLarge)
	}
	if len(body) == 0 {
		return apierror.Validation("Request body is required", nil)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return apierror.Validation("Malformed JSON", nil).WithCause(err)
		}
		return apierror.Validation("Invalid request body", nil).WithCause(err)
	}
	return nil
}
