// Package perf records how long each instrumented function takes.
//
// Instrument a function with
//
//	defer perf.Track(cfg, "discovery.Discover")()
//
// Tracking is off until EnableTracking(true) is called or cfg.Profile.Enabled is set, and
// costs a single atomic load while disabled.
package perf

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/cloudposse/capnp-import/pkg/schema"
)

const (
	// Histogram bounds in microseconds: 1µs to 1h with 3 significant figures.
	histMin     = 1
	histMax     = int64(time.Hour / time.Microsecond)
	histSigFigs = 3
)

var (
	enabled  atomic.Bool
	mu       sync.Mutex
	registry = map[string]*metric{}
	started  = time.Now()
)

type metric struct {
	count int64
	total time.Duration
	max   time.Duration
	hist  *hdrhistogram.Histogram
}

// Row is one function's aggregate timing.
type Row struct {
	Name  string
	Count int64
	Total time.Duration
	Avg   time.Duration
	Max   time.Duration
	P95   time.Duration
}

// Snapshot is the set of rows sorted by total time, slowest first.
type Snapshot struct {
	Rows    []Row
	Elapsed time.Duration
}

// EnableTracking turns recording on or off for the whole process.
func EnableTracking(on bool) {
	enabled.Store(on)
}

// IsTrackingEnabled reports whether recording is on.
func IsTrackingEnabled() bool {
	return enabled.Load()
}

// Track starts timing name and returns the function that stops it.
func Track(cfg *schema.Configuration, name string) func() {
	if !enabled.Load() && (cfg == nil || !cfg.Profile.Enabled) {
		return func() {}
	}
	start := time.Now()
	return func() {
		record(name, time.Since(start))
	}
}

func record(name string, d time.Duration) {
	mu.Lock()
	defer mu.Unlock()

	m, ok := registry[name]
	if !ok {
		m = &metric{hist: hdrhistogram.New(histMin, histMax, histSigFigs)}
		registry[name] = m
	}
	m.count++
	m.total += d
	if d > m.max {
		m.max = d
	}
	us := d.Microseconds()
	if us < histMin {
		us = histMin
	}
	// Values above histMax are clamped by the histogram and only affect P95.
	_ = m.hist.RecordValue(min(us, histMax))
}

// TakeSnapshot returns up to top rows (all rows when top <= 0).
func TakeSnapshot(top int) Snapshot {
	mu.Lock()
	defer mu.Unlock()

	rows := make([]Row, 0, len(registry))
	for name, m := range registry {
		rows = append(rows, Row{
			Name:  name,
			Count: m.count,
			Total: m.total,
			Avg:   m.total / time.Duration(m.count),
			Max:   m.max,
			P95:   time.Duration(m.hist.ValueAtQuantile(95)) * time.Microsecond,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Name < rows[j].Name
	})
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}
	return Snapshot{Rows: rows, Elapsed: time.Since(started)}
}

// Reset drops every recorded metric.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	registry = map[string]*metric{}
	started = time.Now()
}
