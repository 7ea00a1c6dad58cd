// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package monitor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tomtom215/gigmarket/internal/store"
)

func bruteForceKey(ip, identifier string) string {
	return keyBruteForcePrefix + ip + ":" + identifier
}

// CheckBruteForce reports whether (ip, identifier) has reached maxAttempts
// failures inside the current window. When blocked, ResetTime is derived
// from the counter's remaining TTL, or from window when the TTL is unknown.
func (m *Monitor) CheckBruteForce(ctx context.Context, ip, identifier string, maxAttempts int, window time.Duration) (BruteForceStatus, error) {
	key := bruteForceKey(ip, identifier)

	raw, err := m.store.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return BruteForceStatus{}, nil
	}
	if err != nil {
		return BruteForceStatus{}, fmt.Errorf("check brute force: %w", err)
	}

	attempts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return BruteForceStatus{}, fmt.Errorf("check brute force: corrupt counter %q", raw)
	}

	status := BruteForceStatus{Attempts: attempts}
	if attempts < int64(maxAttempts) {
		return status, nil
	}

	status.IsBlocked = true
	remaining := window
	if ttl, err := m.store.TTL(ctx, key); err == nil && ttl > 0 {
		remaining = ttl
	}
	reset := m.now().Add(remaining).UTC()
	status.ResetTime = &reset
	return status, nil
}

// RecordFailedAttempt counts a failure for (ip, identifier). The window
// starts with the first failure and is not extended by later ones.
func (m *Monitor) RecordFailedAttempt(ctx context.Context, ip, identifier string, window time.Duration) (int64, error) {
	n, err := m.store.IncrWithExpiry(ctx, bruteForceKey(ip, identifier), window)
	if err != nil {
		return 0, fmt.Errorf("record failed attempt: %w", err)
	}
	return n, nil
}

// ClearFailedAttempts resets the counter, typically after a successful login.
func (m *Monitor) ClearFailedAttempts(ctx context.Context, ip, identifier string) error {
	if _, err := m.store.Del(ctx, bruteForceKey(ip, identifier)); err != nil {
		return fmt.Errorf("clear failed attempts: %w", err)
	}
	return nil
}
