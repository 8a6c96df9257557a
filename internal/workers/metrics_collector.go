package workers

import (
	"context"
	"database/sql"
	"time"

	"broadcast-tool-backend/internal/common/logger"
	"broadcast-tool-backend/internal/common/metrics"
	streammodels "broadcast-tool-backend/internal/features/stream/models"
	streamrepo "broadcast-tool-backend/internal/features/stream/repository"
)

// MetricsCollector mirrors the streamer's Redis heartbeat into the Prometheus
// registry so the bundled Grafana dashboards and alert rules can scrape it
// from this backend, and samples the database pool usage.
type MetricsCollector struct {
	repo     streamrepo.StreamRepository
	db       *sql.DB
	interval time.Duration

	// Last observed cumulative values, for advancing the counters by delta.
	lastUnderruns int64
	lastErrors    int64
	seeded        bool
}

func NewMetricsCollector(repo streamrepo.StreamRepository, db *sql.DB, interval time.Duration) *MetricsCollector {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &MetricsCollector{
		repo:     repo,
		db:       db,
		interval: interval,
	}
}

// Start runs the collection loop until ctx is cancelled.
func (c *MetricsCollector) Start(ctx context.Context) {
	logger.Info().Dur("interval", c.interval).Msg("Starting metrics collector")

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Stopping metrics collector")
			return
		case <-ticker.C:
			c.collect(ctx)
		}
	}
}

func (c *MetricsCollector) collect(ctx context.Context) {
	metrics.DBConnectionsActive.Set(float64(c.db.Stats().InUse))

	status, err := c.repo.GetStatus(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Metrics collector: failed to read status")
		return
	}
	metrics.SetStreamRunning(status.State == streammodels.StateRunning)

	sample, err := c.repo.GetMetrics(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Metrics collector: failed to read metrics")
		return
	}

	if sample.Stale {
		// Heartbeat expired: keep the counters, zero the gauges so the
		// dashboards show the outage instead of a frozen value.
		metrics.StreamUptimeSeconds.Set(0)
		metrics.BufferSizeBytes.Set(0)
		return
	}

	metrics.StreamUptimeSeconds.Set(sample.UptimeSeconds)
	metrics.BufferSizeBytes.Set(float64(sample.BufferSizeBytes))

	// The streamer reports lifetime totals; Prometheus counters advance by
	// the delta. A restarted streamer resets its totals, so a negative
	// delta reseeds instead of panicking the counter.
	if !c.seeded || sample.BufferUnderruns < c.lastUnderruns || sample.Errors < c.lastErrors {
		c.lastUnderruns = sample.BufferUnderruns
		c.lastErrors = sample.Errors
		c.seeded = true
		return
	}

	if d := sample.BufferUnderruns - c.lastUnderruns; d > 0 {
		metrics.BufferUnderrunsTotal.Add(float64(d))
		c.lastUnderruns = sample.BufferUnderruns
	}
	if d := sample.Errors - c.lastErrors; d > 0 {
		metrics.StreamErrorsTotal.Add(float64(d))
		c.lastErrors = sample.Errors
	}
}
