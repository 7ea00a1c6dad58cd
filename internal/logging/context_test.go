// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestGenerateIDs(t *testing.T) {
	t.Parallel()

	c1, c2 := GenerateCorrelationID(), GenerateCorrelationID()
	if len(c1) != 8 {
		t.Errorf("expected 8-character correlation ID, got %d", len(c1))
	}
	if c1 == c2 {
		t.Error("expected unique correlation IDs")
	}

	r1, r2 := GenerateRequestID(), GenerateRequestID()
	if len(r1) != 36 {
		t.Errorf("expected 36-character request ID, got %d", len(r1))
	}
	if r1 == r2 {
		t.Error("expected unique request IDs")
	}
}

func TestContextValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if RequestIDFromContext(ctx) != "" || CorrelationIDFromContext(ctx) != "" || UserIDFromContext(ctx) != "" {
		t.Fatal("expected empty values on bare context")
	}

	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")
	ctx = ContextWithUserID(ctx, "user-123456789")

	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext = %q, want req-1", got)
	}
	if got := CorrelationIDFromContext(ctx); got != "corr-1" {
		t.Errorf("CorrelationIDFromContext = %q, want corr-1", got)
	}
	if got := UserIDFromContext(ctx); got != "user-123456789" {
		t.Errorf("UserIDFromContext = %q", got)
	}

	if got := CorrelationIDFromContext(ContextWithNewCorrelationID(context.Background())); len(got) != 8 {
		t.Errorf("expected generated correlation ID, got %q", got)
	}
}

func TestCtxLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer Init(DefaultConfig())

	ctx := ContextWithRequestID(context.Background(), "req-42")
	ctx = ContextWithUserID(ctx, "user-123456789")
	Ctx(ctx).Info().Msg("handled")

	output := buf.String()
	if !strings.Contains(output, `"request_id":"req-42"`) {
		t.Errorf("expected request_id in output: %s", output)
	}
	if !strings.Contains(output, `"user_id":"user...6789"`) {
		t.Errorf("expected sanitized user_id in output: %s", output)
	}
	if strings.Contains(output, "correlation_id") {
		t.Errorf("did not expect correlation_id in output: %s", output)
	}
}
