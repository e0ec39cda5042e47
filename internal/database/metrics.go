package database

import (
	"sync"
	"time"
)

// Metrics accumulates query counters for the lifetime of the manager.
type Metrics struct {
	mu             sync.Mutex
	queryCount     int64
	errorCount     int64
	slowQueryCount int64
	totalDuration  time.Duration
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Timestamp        time.Time
	QueryCount       int64
	ErrorCount       int64
	SlowQueryCount   int64
	AvgQueryDuration time.Duration
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordQuery adds one query observation.
func (m *Metrics) RecordQuery(duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queryCount++
	m.totalDuration += duration
	if err != nil {
		m.errorCount++
	}
	if duration > 100*time.Millisecond {
		m.slowQueryCount++
	}
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := MetricsSnapshot{
		Timestamp:      time.Now(),
		QueryCount:     m.queryCount,
		ErrorCount:     m.errorCount,
		SlowQueryCount: m.slowQueryCount,
	}
	if m.queryCount > 0 {
		snap.AvgQueryDuration = m.totalDuration / time.Duration(m.queryCount)
	}
	return snap
}
