package workers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"broadcast-tool-backend/internal/common/logger"
	"broadcast-tool-backend/internal/common/metrics"
	streammodels "broadcast-tool-backend/internal/features/stream/models"
	streamrepo "broadcast-tool-backend/internal/features/stream/repository"
)

// RecoveryConfig tunes the auto-session-recovery watchdog.
type RecoveryConfig struct {
	CheckInterval time.Duration
	// HeartbeatGrace is how long a running stream may go without a
	// heartbeat before recovery kicks in. Must exceed the 10s TTL of the
	// streamer:metrics hash or healthy streams get restarted.
	HeartbeatGrace time.Duration
	BackoffBase    time.Duration
	BackoffMax     time.Duration
	MaxRetries     int
}

// RecoveryWorker watches the streamer heartbeat and restarts dead sessions.
// A session is considered dead when the streamer reports the error state, or
// claims to be running while its heartbeat has expired past the grace period.
type RecoveryWorker struct {
	repo streamrepo.StreamRepository
	cfg  RecoveryConfig

	attempts     int
	nextAttempt  time.Time
	unhealthyFor time.Duration
	exhausted    bool
}

func NewRecoveryWorker(repo streamrepo.StreamRepository, cfg RecoveryConfig) *RecoveryWorker {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = 5 * time.Second
	}
	if cfg.HeartbeatGrace <= 0 {
		cfg.HeartbeatGrace = 15 * time.Second
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 5 * time.Second
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = 80 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	return &RecoveryWorker{repo: repo, cfg: cfg}
}

// Start runs the watchdog loop until ctx is cancelled.
func (w *RecoveryWorker) Start(ctx context.Context) {
	logger.Info().
		Dur("check_interval", w.cfg.CheckInterval).
		Int("max_retries", w.cfg.MaxRetries).
		Msg("Starting session recovery worker")

	ticker := time.NewTicker(w.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Stopping session recovery worker")
			return
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

func (w *RecoveryWorker) check(ctx context.Context) {
	status, err := w.repo.GetStatus(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Recovery: failed to read streamer status")
		return
	}

	switch status.State {
	case streammodels.StateStopped, streammodels.StateStarting:
		// Stopped is an operator decision, starting is a transition;
		// neither is ours to fix.
		w.reset()
		return
	}

	unhealthy := status.State == streammodels.StateError
	if !unhealthy && status.State == streammodels.StateRunning {
		alive, err := w.repo.HeartbeatAlive(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("Recovery: failed to check heartbeat")
			return
		}
		if alive {
			// Healthy for a full probation interval clears the
			// retry budget.
			if w.attempts > 0 && time.Now().After(w.nextAttempt) {
				logger.Info().
					Int("attempts", w.attempts).
					Msg("Stream recovered, resetting retry budget")
				w.reset()
			}
			w.unhealthyFor = 0
			return
		}

		w.unhealthyFor += w.cfg.CheckInterval
		if w.unhealthyFor < w.cfg.HeartbeatGrace {
			return
		}
		unhealthy = true
	}

	if !unhealthy {
		return
	}

	if w.exhausted {
		return
	}

	if w.attempts >= w.cfg.MaxRetries {
		w.exhausted = true
		metrics.StreamErrorsTotal.Inc()
		logger.Error().
			Int("attempts", w.attempts).
			Str("state", status.State).
			Str("last_error", status.LastError).
			Msg("Session recovery retries exhausted, operator intervention required")
		return
	}

	if time.Now().Before(w.nextAttempt) {
		return
	}

	w.attempts++
	backoff := w.backoff(w.attempts)
	w.nextAttempt = time.Now().Add(backoff)

	cmd := &streammodels.Command{
		Command:   streammodels.CommandRestart,
		RequestID: uuid.New().String(),
		IssuedBy:  0, // system
		IssuedAt:  time.Now().UTC(),
	}

	if err := w.repo.SendCommand(ctx, cmd); err != nil {
		logger.Error().Err(err).Msg("Recovery: failed to publish restart command")
		return
	}

	metrics.ReconnectAttemptsTotal.Inc()

	logger.Warn().
		Int("attempt", w.attempts).
		Int("max_retries", w.cfg.MaxRetries).
		Dur("next_backoff", backoff).
		Str("state", status.State).
		Str("request_id", cmd.RequestID).
		Msg("Issued automatic session recovery restart")
}

func (w *RecoveryWorker) backoff(attempt int) time.Duration {
	d := w.cfg.BackoffBase
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= w.cfg.BackoffMax {
			return w.cfg.BackoffMax
		}
	}
	return d
}

func (w *RecoveryWorker) reset() {
	w.attempts = 0
	w.nextAttempt = time.Time{}
	w.unhealthyFor = 0
	w.exhausted = false
}
