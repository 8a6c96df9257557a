package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"broadcast-tool-backend/internal/features/stream/models"
	"broadcast-tool-backend/internal/features/stream/repository"
)

// Redis keys shared with the streamer process.
const (
	statusKey   = "streamer:status"
	metricsKey  = "streamer:metrics"
	logsKey     = "streamer:logs"
	commandsKey = "streamer:commands"
	lockKey     = "streamer:control:lock"
)

type streamRepository struct {
	client *goredis.Client
}

func NewStreamRepository(client *goredis.Client) repository.StreamRepository {
	return &streamRepository{client: client}
}

func (r *streamRepository) GetStatus(ctx context.Context) (*models.Status, error) {
	values, err := r.client.HGetAll(ctx, statusKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read streamer status: %w", err)
	}

	status := &models.Status{State: models.StateStopped}
	if len(values) == 0 {
		// The streamer has never written status; treat as stopped.
		return status, nil
	}

	if state := values["state"]; state != "" {
		status.State = state
	}
	status.CurrentTrack = values["current_track"]
	status.LastError = values["last_error"]

	if raw := values["started_at"]; raw != "" {
		if startedAt, err := time.Parse(time.RFC3339, raw); err == nil {
			status.StartedAt = startedAt
			if status.State == models.StateRunning {
				status.UptimeSeconds = time.Since(startedAt).Seconds()
			}
		}
	}

	return status, nil
}

func (r *streamRepository) GetMetrics(ctx context.Context) (*models.Metrics, error) {
	values, err := r.client.HGetAll(ctx, metricsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read streamer metrics: %w", err)
	}

	if len(values) == 0 {
		// Hash expired: the streamer heartbeat is older than its 10s TTL.
		return &models.Metrics{Stale: true}, nil
	}

	metrics := &models.Metrics{
		CPUPercent:      parseFloat(values["cpu_percent"]),
		MemoryMB:        parseFloat(values["memory_mb"]),
		UptimeSeconds:   parseFloat(values["uptime_seconds"]),
		BufferSizeBytes: parseInt(values["buffer_size_bytes"]),
		BufferUnderruns: parseInt(values["buffer_underruns"]),
		Errors:          parseInt(values["errors"]),
	}

	if raw := values["timestamp"]; raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			metrics.Timestamp = ts
		}
	}

	return metrics, nil
}

func (r *streamRepository) HeartbeatAlive(ctx context.Context) (bool, error) {
	n, err := r.client.Exists(ctx, metricsKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check streamer heartbeat: %w", err)
	}
	return n > 0, nil
}

func (r *streamRepository) GetLogs(ctx context.Context, limit int) ([]models.LogEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	lines, err := r.client.LRange(ctx, logsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read streamer logs: %w", err)
	}

	entries := make([]models.LogEntry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, ParseLogLine(line))
	}

	return entries, nil
}

func (r *streamRepository) TailLogs(ctx context.Context, lastLen int64) ([]models.LogEntry, int64, error) {
	newLen, err := r.client.LLen(ctx, logsKey).Result()
	if err != nil {
		return nil, lastLen, fmt.Errorf("failed to measure streamer logs: %w", err)
	}

	// The streamer trims the list, so the length can shrink between polls.
	if newLen <= lastLen {
		return nil, newLen, nil
	}

	count := newLen - lastLen
	lines, err := r.client.LRange(ctx, logsKey, 0, count-1).Result()
	if err != nil {
		return nil, lastLen, fmt.Errorf("failed to tail streamer logs: %w", err)
	}

	// LPUSH order is newest first; emit oldest first.
	entries := make([]models.LogEntry, 0, len(lines))
	for i := len(lines) - 1; i >= 0; i-- {
		entries = append(entries, ParseLogLine(lines[i]))
	}

	return entries, newLen, nil
}

func (r *streamRepository) SendCommand(ctx context.Context, cmd *models.Command) error {
	err := r.client.XAdd(ctx, &goredis.XAddArgs{
		Stream: commandsKey,
		MaxLen: 1000,
		Approx: true,
		Values: map[string]interface{}{
			"command":    cmd.Command,
			"request_id": cmd.RequestID,
			"issued_by":  strconv.FormatInt(cmd.IssuedBy, 10),
			"issued_at":  cmd.IssuedAt.UTC().Format(time.RFC3339),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish streamer command: %w", err)
	}

	return nil
}

func (r *streamRepository) AcquireControlLock(ctx context.Context, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, lockKey, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire control lock: %w", err)
	}
	return ok, nil
}

func (r *streamRepository) ReleaseControlLock(ctx context.Context) error {
	if err := r.client.Del(ctx, lockKey).Err(); err != nil {
		return fmt.Errorf("failed to release control lock: %w", err)
	}
	return nil
}

// ParseLogLine decodes a streamer log line. The streamer writes JSON lines;
// anything that does not decode is passed through as a plain message.
func ParseLogLine(line string) models.LogEntry {
	var structured struct {
		Timestamp string `json:"timestamp"`
		Level     string `json:"level"`
		Message   string `json:"message"`
	}

	if err := json.Unmarshal([]byte(line), &structured); err != nil || structured.Message == "" {
		return models.LogEntry{Message: line}
	}

	entry := models.LogEntry{
		Level:   structured.Level,
		Message: structured.Message,
	}
	if ts, err := time.Parse(time.RFC3339, structured.Timestamp); err == nil {
		entry.Timestamp = ts
	}

	return entry
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseInt(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}
