// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package monitor

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/gigmarket/internal/store"
)

const maxScore = 100

// penalties by severity
var penalties = map[Severity]int{
	SeverityLow:      5,
	SeverityMedium:   15,
	SeverityHigh:     30,
	SeverityCritical: 50,
}

// Band classifies a score: >= 80 good, >= 40 suspicious, else bad.
func Band(score int) string {
	switch {
	case score >= 80:
		return BandGood
	case score >= 40:
		return BandSuspicious
	default:
		return BandBad
	}
}

func reputationKey(ip string) string { return keyReputationPrefix + ip }

// IPReputation returns the stored reputation of ip, or a fresh score of 100.
func (m *Monitor) IPReputation(ctx context.Context, ip string) (Reputation, error) {
	fresh := Reputation{IP: ip, Score: maxScore, Band: BandGood, Reasons: []string{}}

	raw, err := m.store.Get(ctx, reputationKey(ip))
	if errors.Is(err, store.ErrNotFound) {
		return fresh, nil
	}
	if err != nil {
		return fresh, fmt.Errorf("load reputation: %w", err)
	}

	var rep Reputation
	if err := json.Unmarshal([]byte(raw), &rep); err != nil {
		m.log.Warn().Err(err).Str("ip", ip).Msg("Discarding corrupt reputation")
		return fresh, nil
	}
	return rep, nil
}

// UpdateIPReputation deducts the severity penalty for event, reclassifies
// the band and stores the result for 24h.
func (m *Monitor) UpdateIPReputation(ctx context.Context, ip, event string, sev Severity) (Reputation, error) {
	rep, err := m.IPReputation(ctx, ip)
	if err != nil {
		return rep, err
	}

	rep.Score = max(rep.Score-penalties[sev], 0)
	rep.Band = Band(rep.Score)
	rep.Reasons = append(rep.Reasons, fmt.Sprintf("%s (%s)", event, sev))
	if len(rep.Reasons) > maxReasons {
		rep.Reasons = rep.Reasons[len(rep.Reasons)-maxReasons:]
	}
	rep.LastUpdated = m.now().UTC()

	data, err := json.Marshal(rep)
	if err != nil {
		return rep, fmt.Errorf("encode reputation: %w", err)
	}
	if err := m.store.Set(ctx, reputationKey(ip), string(data), reputationTTL); err != nil {
		return rep, fmt.Errorf("store reputation: %w", err)
	}
	return rep, nil
}
