// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package perf

import (
	"time"

	"github.com/tomtom215/gigmarket/internal/metrics"
)

// DurationSuffix is appended to a timer's name when it records.
const DurationSuffix = "_duration"

// Timer is a stopwatch that records into a Tracker when stopped.
//
//	timer := tracker.StartTimer("api_jobs_list")
//	defer timer.Stop(nil)
type Timer struct {
	tracker *Tracker
	name    string
	start   time.Time
}

// StartTimer starts a stopwatch. A nil tracker yields a timer that measures
// but records nothing.
func (t *Tracker) StartTimer(name string) *Timer {
	start := time.Now()
	if t != nil {
		start = t.now()
	}
	return &Timer{tracker: t, name: name, start: start}
}

// Stop records <name>_duration in milliseconds and returns the elapsed time.
func (tm *Timer) Stop(metadata map[string]any) time.Duration {
	var elapsed time.Duration
	if tm.tracker != nil {
		elapsed = tm.tracker.now().Sub(tm.start)
	} else {
		elapsed = time.Since(tm.start)
	}
	tm.tracker.Record(tm.name+DurationSuffix, float64(elapsed)/float64(time.Millisecond), UnitMilliseconds, metadata)
	return elapsed
}

// TrackDBQuery times fn as a database query. The timing is recorded on
// every return path and mirrored into the Prometheus query histogram.
func TrackDBQuery[T any](t *Tracker, name string, fn func() (T, error)) (T, error) {
	timer := t.StartTimer(PrefixDB + name)
	v, err := fn()
	elapsed := timer.Stop(map[string]any{"success": err == nil})
	metrics.RecordDBQuery(name, elapsed, err)
	return v, err
}

// TrackAPI times fn as an API handler.
func TrackAPI(t *Tracker, name string, fn func() error) error {
	timer := t.StartTimer(PrefixAPI + name)
	err := fn()
	timer.Stop(map[string]any{"success": err == nil})
	return err
}
