// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

func TestSweeperServiceImplementsService(t *testing.T) {
	var _ suture.Service = (*SweeperService)(nil)
}

func TestSweeperServiceRunsOnInterval(t *testing.T) {
	var passes atomic.Int32
	svc := NewSweeperService("alerts", 10*time.Millisecond, func(context.Context) (int, error) {
		n := passes.Add(1)
		if n == 2 {
			return 0, errors.New("store unavailable")
		}
		return 3, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := svc.Serve(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
	// A failed pass must not stop later passes.
	if passes.Load() < 3 {
		t.Errorf("passes = %d, want >= 3", passes.Load())
	}
}

func TestSweeperServiceDefaults(t *testing.T) {
	svc := NewSweeperService("expired-keys", 0, func(context.Context) (int, error) { return 0, nil })
	if svc.interval != time.Minute {
		t.Errorf("interval = %v, want 1m", svc.interval)
	}
	if svc.String() != "expired-keys" {
		t.Errorf("String() = %q", svc.String())
	}
}
