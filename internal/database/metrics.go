package database

import (
	"database/sql"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Metrics tracks cumulative query counters for the manager.
type Metrics struct {
	db     *sql.DB
	logger *zap.Logger

	queryCount     int64
	queryDuration  int64 // nanoseconds
	errorCount     int64
	slowQueryCount int64

	slowQueryThreshold time.Duration
}

// MetricsSnapshot is a point-in-time view of the counters.
type MetricsSnapshot struct {
	QueryCount      int64         `json:"query_count"`
	ErrorCount      int64         `json:"error_count"`
	SlowQueryCount  int64         `json:"slow_query_count"`
	AvgQueryTime    time.Duration `json:"avg_query_time"`
	OpenConnections int           `json:"open_connections"`
	InUse           int           `json:"in_use"`
	Idle            int           `json:"idle"`
}

// NewMetrics creates a metrics collector.
func NewMetrics(db *sql.DB, logger *zap.Logger) *Metrics {
	return &Metrics{
		db:                 db,
		logger:             logger,
		slowQueryThreshold: 100 * time.Millisecond,
	}
}

// RecordQuery updates the counters for one executed statement.
func (m *Metrics) RecordQuery(queryType string, duration time.Duration, err error) {
	atomic.AddInt64(&m.queryCount, 1)
	atomic.AddInt64(&m.queryDuration, int64(duration))

	if err != nil {
		atomic.AddInt64(&m.errorCount, 1)
	}
	if duration > m.slowQueryThreshold {
		atomic.AddInt64(&m.slowQueryCount, 1)
	}
}

// Snapshot returns the current counters plus pool state.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	count := atomic.LoadInt64(&m.queryCount)
	total := atomic.LoadInt64(&m.queryDuration)

	var avg time.Duration
	if count > 0 {
		avg = time.Duration(total / count)
	}

	stats := m.db.Stats()
	return &MetricsSnapshot{
		QueryCount:      count,
		ErrorCount:      atomic.LoadInt64(&m.errorCount),
		SlowQueryCount:  atomic.LoadInt64(&m.slowQueryCount),
		AvgQueryTime:    avg,
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
		Idle:            stats.Idle,
	}
}
