package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/hirehub/backend/internal/common/constants"
	"github.com/hirehub/backend/internal/observability/metrics"
)

// StartPoolMetrics samples pool stats until ctx is cancelled.
func StartPoolMetrics(ctx context.Context, pool *pgxpool.Pool, interval time.Duration) {
	if interval <= 0 {
		interval = constants.DBPoolMetricsInterval
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := pool.Stat()
				metrics.DBPool.WithLabelValues("acquired").Set(float64(stats.AcquiredConns()))
				metrics.DBPool.WithLabelValues("idle").Set(float64(stats.IdleConns()))
				metrics.DBPool.WithLabelValues("max").Set(float64(stats.MaxConns()))
				metrics.DBPool.WithLabelValues("total").Set(float64(stats.TotalConns()))
			}
		}
	}()
}
