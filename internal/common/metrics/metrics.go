package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the broadcast backend. Series names are the
// scrape contract consumed by the bundled Grafana dashboards and alert rules:
// HTTP traffic, database pool usage, and the stream health series mirrored
// from the streamer's Redis heartbeat.

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Database metrics
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Current number of database connections in use",
		},
	)

	// Stream health metrics, mirrored from the streamer:metrics hash
	StreamUptimeSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stream_uptime_seconds",
			Help: "Uptime of the current broadcast session in seconds",
		},
	)

	StreamStatus = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stream_status",
			Help: "Broadcast state: 1 when running, 0 otherwise",
		},
	)

	BufferSizeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "buffer_size_bytes",
			Help: "Current size of the streamer media buffer in bytes",
		},
	)

	BufferUnderrunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "buffer_underruns_total",
			Help: "Total number of media buffer underruns",
		},
	)

	StreamErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_errors_total",
			Help: "Total number of streamer errors",
		},
	)

	ReconnectAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reconnect_attempts_total",
			Help: "Total number of automatic session recovery attempts",
		},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// SetStreamRunning flips the stream_status gauge.
func SetStreamRunning(running bool) {
	if running {
		StreamStatus.Set(1)
	} else {
		StreamStatus.Set(0)
	}
}
