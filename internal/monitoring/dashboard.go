// Package monitoring exposes a small operational snapshot for officials'
// tooling: process uptime, database counters and pool stats.
package monitoring

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"sklink/internal/database"

	"go.uber.org/zap"
)

// Dashboard serves the /metrics snapshot.
type Dashboard struct {
	db          *database.Manager
	logger      *zap.Logger
	startTime   time.Time
	environment string
}

// NewDashboard creates the monitoring dashboard.
func NewDashboard(db *database.Manager, environment string, logger *zap.Logger) *Dashboard {
	return &Dashboard{
		db:          db,
		logger:      logger,
		startTime:   time.Now(),
		environment: environment,
	}
}

type snapshot struct {
	Environment string        `json:"environment"`
	Uptime      string        `json:"uptime"`
	Goroutines  int           `json:"goroutines"`
	Database    databaseStats `json:"database"`
	Timestamp   time.Time     `json:"timestamp"`
}

type databaseStats struct {
	QueryCount       int64  `json:"query_count"`
	ErrorCount       int64  `json:"error_count"`
	SlowQueryCount   int64  `json:"slow_query_count"`
	AvgQueryDuration string `json:"avg_query_duration"`
	OpenConnections  int    `json:"open_connections"`
	InUse            int    `json:"in_use"`
	Idle             int    `json:"idle"`
	WaitCount        int64  `json:"wait_count"`
}

// Handler serves GET /metrics.
func (d *Dashboard) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics := d.db.Metrics()
		pool := d.db.Stats()

		snap := snapshot{
			Environment: d.environment,
			Uptime:      time.Since(d.startTime).Truncate(time.Second).String(),
			Goroutines:  runtime.NumGoroutine(),
			Database: databaseStats{
				QueryCount:       metrics.QueryCount,
				ErrorCount:       metrics.ErrorCount,
				SlowQueryCount:   metrics.SlowQueryCount,
				AvgQueryDuration: metrics.AvgQueryDuration.String(),
				OpenConnections:  pool.OpenConnections,
				InUse:            pool.InUse,
				Idle:             pool.Idle,
				WaitCount:        pool.WaitCount,
			},
			Timestamp: time.Now().UTC(),
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snap); err != nil {
			d.logger.Error("failed to encode metrics snapshot", zap.Error(err))
		}
	}
}
