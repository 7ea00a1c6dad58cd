// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package perf

import (
	"fmt"
	"strings"
)

// Thresholds above which Recommendations emits advice.
const (
	SlowAPIMillis    = 1000
	SlowDBMillis     = 500
	SlowRenderMillis = 16
	HighHeapMB       = 100
)

func timerOf(prefix string) func(*Metric) bool {
	return func(m *Metric) bool {
		return strings.HasPrefix(m.Name, prefix) && strings.HasSuffix(m.Name, DurationSuffix)
	}
}

// Recommendations inspects averaged timings and heap usage and returns
// human-readable advice. An empty result means nothing stands out.
func (t *Tracker) Recommendations() []string {
	var out []string

	if avg, ok := t.averageWhere(timerOf(PrefixAPI)); ok && avg > SlowAPIMillis {
		out = append(out, fmt.Sprintf(
			"Average API response time is %.0fms; cache hot endpoints or paginate large responses", avg))
	}
	if avg, ok := t.averageWhere(timerOf(PrefixDB)); ok && avg > SlowDBMillis {
		out = append(out, fmt.Sprintf(
			"Average database query time is %.0fms; review indexes and narrow selected columns", avg))
	}
	if avg, ok := t.averageWhere(timerOf(PrefixRender)); ok && avg > SlowRenderMillis {
		out = append(out, fmt.Sprintf(
			"Average render time is %.1fms, over the 16ms frame budget; split or memoize heavy components", avg))
	}
	if heap := t.HeapUsageMB(); heap > HighHeapMB {
		out = append(out, fmt.Sprintf(
			"Heap usage is %.1fMB; look for unbounded caches or retained request data", heap))
	}
	return out
}
