// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

// Package perf records in-process timings in a bounded ring buffer and
// derives averages, percentiles and tuning advice from them.
//
// Everything here is observational. A nil *Tracker is valid for StartTimer,
// TrackAPI and TrackDBQuery so callers can time unconditionally.
package perf
