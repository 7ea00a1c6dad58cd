// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package monitor

import (
	"context"
	"fmt"

	"github.com/tomtom215/gigmarket/internal/metrics"
)

// Cleanup removes list entries whose alert record has expired and returns
// how many were removed. Stale entries are harmless (RecentAlerts skips
// them), so this is housekeeping only.
func (m *Monitor) Cleanup(ctx context.Context) (int, error) {
	lists := make([]string, 0, len(Severities)+1)
	lists = append(lists, listKey(""))
	for _, sev := range Severities {
		lists = append(lists, listKey(sev))
	}

	removed := 0
	for _, list := range lists {
		ids, err := m.store.LRange(ctx, list, 0, -1)
		if err != nil {
			return removed, fmt.Errorf("cleanup %s: %w", list, err)
		}
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return removed, err
			}
			exists, err := m.store.Exists(ctx, alertKey(id))
			if err != nil {
				return removed, fmt.Errorf("cleanup %s: %w", list, err)
			}
			if exists {
				continue
			}
			n, err := m.store.LRem(ctx, list, 0, id)
			if err != nil {
				return removed, fmt.Errorf("cleanup %s: %w", list, err)
			}
			removed += int(n)
		}
	}

	metrics.SecurityCleanupRemoved.Add(float64(removed))
	m.log.Info().Int("removed", removed).Msg("Security data cleanup completed")
	return removed, nil
}
