package repository

import (
	"context"
	"time"

	"broadcast-tool-backend/internal/features/stream/models"
)

// StreamRepository is the Redis contract shared with the streamer process:
// status and metrics hashes written by the streamer, a capped log list, and
// the command stream consumed by the streamer.
type StreamRepository interface {
	GetStatus(ctx context.Context) (*models.Status, error)
	GetMetrics(ctx context.Context) (*models.Metrics, error)
	// HeartbeatAlive reports whether the metrics hash still exists; it
	// expires 10 seconds after the streamer's last heartbeat.
	HeartbeatAlive(ctx context.Context) (bool, error)
	GetLogs(ctx context.Context, limit int) ([]models.LogEntry, error)
	// TailLogs returns entries pushed since the list was lastLen long,
	// oldest first, plus the current list length.
	TailLogs(ctx context.Context, lastLen int64) ([]models.LogEntry, int64, error)
	SendCommand(ctx context.Context, cmd *models.Command) error

	// Control lock serializing start/stop/restart across backend replicas.
	AcquireControlLock(ctx context.Context, ttl time.Duration) (bool, error)
	ReleaseControlLock(ctx context.Context) error
}
