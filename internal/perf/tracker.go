// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package perf

import (
	"runtime/metrics"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultCapacity is the ring buffer size used by New when capacity <= 0.
const DefaultCapacity = 1000

// Unit of a recorded value.
type Unit string

const (
	UnitMilliseconds Unit = "ms"
	UnitMegabytes    Unit = "MB"
	UnitCount        Unit = "count"
)

// Metric name prefixes. Timers started through TrackAPI and TrackDBQuery
// use them so the recommendation engine can group by kind.
const (
	PrefixAPI    = "api_"
	PrefixDB     = "db_"
	PrefixRender = "render_"
)

// Metric is a single observation.
type Metric struct {
	Name      string         `json:"name"`
	Value     float64        `json:"value"`
	Unit      Unit           `json:"unit"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Tracker keeps the most recent metrics in a fixed-size ring buffer. It is
// purely observational: nothing it records changes request handling.
type Tracker struct {
	mu    sync.RWMutex
	buf   []Metric
	head  int
	count int

	now  func() time.Time
	heap func() float64
}

// New creates a tracker holding up to capacity metrics.
func New(capacity int) *Tracker {
	return NewWithClock(capacity, time.Now)
}

// NewWithClock creates a tracker with an injected clock.
func NewWithClock(capacity int, now func() time.Time) *Tracker {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Tracker{
		buf:  make([]Metric, capacity),
		now:  now,
		heap: readHeapMB,
	}
}

// Record appends a metric, evicting the oldest one when full.
func (t *Tracker) Record(name string, value float64, unit Unit, metadata map[string]any) {
	if t == nil {
		return
	}
	m := Metric{
		Name:      name,
		Value:     value,
		Unit:      unit,
		Timestamp: t.now(),
		Metadata:  metadata,
	}

	t.mu.Lock()
	t.buf[t.head] = m
	t.head = (t.head + 1) % len(t.buf)
	if t.count < len(t.buf) {
		t.count++
	}
	t.mu.Unlock()
}

// Len returns the number of buffered metrics.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}

// Recent returns up to n metrics, oldest first. n <= 0 returns all.
func (t *Tracker) Recent(n int) []Metric {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n <= 0 || n > t.count {
		n = t.count
	}
	out := make([]Metric, n)
	start := (t.head - n + len(t.buf)) % len(t.buf)
	for i := 0; i < n; i++ {
		out[i] = t.buf[(start+i)%len(t.buf)]
	}
	return out
}

// Average returns the mean value of all buffered metrics named name.
func (t *Tracker) Average(name string) (float64, bool) {
	return t.averageWhere(func(m *Metric) bool { return m.Name == name })
}

func (t *Tracker) averageWhere(match func(*Metric) bool) (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var sum float64
	var n int
	for i := 0; i < t.count; i++ {
		m := &t.buf[i]
		if match(m) {
			sum += m.Value
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Aggregate summarizes all buffered metrics sharing a name.
type Aggregate struct {
	Name    string  `json:"name"`
	Unit    Unit    `json:"unit"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	P50     float64 `json:"p50"`
	P95     float64 `json:"p95"`
	P99     float64 `json:"p99"`
}

// Summary aggregates the buffer per metric name, sorted by name.
func (t *Tracker) Summary() []Aggregate {
	t.mu.RLock()
	grouped := make(map[string][]float64)
	units := make(map[string]Unit)
	for i := 0; i < t.count; i++ {
		m := &t.buf[i]
		grouped[m.Name] = append(grouped[m.Name], m.Value)
		units[m.Name] = m.Unit
	}
	t.mu.RUnlock()

	out := make([]Aggregate, 0, len(grouped))
	for name, values := range grouped {
		sort.Float64s(values)
		var sum float64
		for _, v := range values {
			sum += v
		}
		out = append(out, Aggregate{
			Name:    name,
			Unit:    units[name],
			Count:   len(values),
			Average: sum / float64(len(values)),
			Min:     values[0],
			Max:     values[len(values)-1],
			P50:     percentile(values, 0.50),
			P95:     percentile(values, 0.95),
			P99:     percentile(values, 0.99),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// EndpointStats returns the API timer aggregates, busiest first.
func (t *Tracker) EndpointStats() []Aggregate {
	var out []Aggregate
	for _, a := range t.Summary() {
		if strings.HasPrefix(a.Name, PrefixAPI) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// HeapUsageMB reports the current heap allocation in megabytes.
func (t *Tracker) HeapUsageMB() float64 {
	if t == nil || t.heap == nil {
		return readHeapMB()
	}
	return t.heap()
}

const heapObjectsMetric = "/memory/classes/heap/objects:bytes"

// readHeapMB reads live heap objects. Unlike runtime.ReadMemStats this does
// not stop the world.
func readHeapMB() float64 {
	sample := []metrics.Sample{{Name: heapObjectsMetric}}
	metrics.Read(sample)
	if sample[0].Value.Kind() != metrics.KindUint64 {
		return 0
	}
	return float64(sample[0].Value.Uint64()) / (1024 * 1024)
}

// percentile expects sorted input.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}
