// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/gigmarket/internal/logging"
)

// SweepFunc performs one maintenance pass and reports how many entries it
// removed.
type SweepFunc func(ctx context.Context) (int, error)

// SweeperService runs a SweepFunc on a fixed interval. A failed pass is
// logged and the next tick retries; only a panic makes suture restart it.
type SweeperService struct {
	name     string
	interval time.Duration
	sweep    SweepFunc
	log      zerolog.Logger
}

// NewSweeperService creates a sweeper. interval must be positive.
func NewSweeperService(name string, interval time.Duration, sweep SweepFunc) *SweeperService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SweeperService{
		name:     name,
		interval: interval,
		sweep:    sweep,
		log:      logging.WithComponent("sweeper").With().Str("sweeper", name).Logger(),
	}
}

// Serve implements suture.Service.
func (s *SweeperService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *SweeperService) runOnce(ctx context.Context) {
	start := time.Now()
	removed, err := s.sweep(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.log.Warn().Err(err).Int("removed", removed).Msg("Sweep failed")
		return
	}
	if removed > 0 {
		s.log.Debug().Int("removed", removed).Dur("took", time.Since(start)).Msg("Sweep complete")
	}
}

func (s *SweeperService) String() string {
	return s.name
}
