package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "broadcast-tool-backend/internal/common/errors"
	"broadcast-tool-backend/internal/common/logger"
	"broadcast-tool-backend/internal/features/stream/models"
	"broadcast-tool-backend/internal/features/stream/repository"
)

type StreamService interface {
	Start(ctx context.Context, issuedBy int64) (*models.ControlResult, error)
	Stop(ctx context.Context, issuedBy int64) (*models.ControlResult, error)
	Restart(ctx context.Context, issuedBy int64) (*models.ControlResult, error)
	GetStatus(ctx context.Context) (*models.Status, error)
	GetMetrics(ctx context.Context) (*models.Metrics, error)
	GetLogs(ctx context.Context, limit int) ([]models.LogEntry, error)
}

type Options struct {
	// CommandTimeout bounds how long a control call waits for the streamer
	// to reach the target state. The dashboard contract caps control
	// responses at 3 seconds, so this must stay under that.
	CommandTimeout time.Duration
	PollInterval   time.Duration
}

type streamService struct {
	repo repository.StreamRepository
	opts Options
}

func NewStreamService(repo repository.StreamRepository, opts Options) StreamService {
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = 2500 * time.Millisecond
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 200 * time.Millisecond
	}
	return &streamService{repo: repo, opts: opts}
}

func (s *streamService) Start(ctx context.Context, issuedBy int64) (*models.ControlResult, error) {
	return s.control(ctx, models.CommandStart, issuedBy)
}

func (s *streamService) Stop(ctx context.Context, issuedBy int64) (*models.ControlResult, error) {
	return s.control(ctx, models.CommandStop, issuedBy)
}

func (s *streamService) Restart(ctx context.Context, issuedBy int64) (*models.ControlResult, error) {
	return s.control(ctx, models.CommandRestart, issuedBy)
}

func (s *streamService) GetStatus(ctx context.Context) (*models.Status, error) {
	status, err := s.repo.GetStatus(ctx)
	if err != nil {
		return nil, apperrors.NewCacheError("stream status", err)
	}
	return status, nil
}

func (s *streamService) GetMetrics(ctx context.Context) (*models.Metrics, error) {
	metrics, err := s.repo.GetMetrics(ctx)
	if err != nil {
		return nil, apperrors.NewCacheError("stream metrics", err)
	}
	return metrics, nil
}

func (s *streamService) GetLogs(ctx context.Context, limit int) ([]models.LogEntry, error) {
	logs, err := s.repo.GetLogs(ctx, limit)
	if err != nil {
		return nil, apperrors.NewCacheError("stream logs", err)
	}
	return logs, nil
}

// control runs one start/stop/restart round trip: validate the current state,
// take the control lock, publish the command, and wait for the streamer to
// reach the target state within the command deadline.
func (s *streamService) control(ctx context.Context, command string, issuedBy int64) (*models.ControlResult, error) {
	status, err := s.repo.GetStatus(ctx)
	if err != nil {
		return nil, apperrors.NewCacheError("stream status", err)
	}

	if err := checkStateConflict(command, status.State); err != nil {
		return nil, err
	}

	// The lock TTL outlives the command deadline slightly so a crashed
	// backend replica cannot wedge control forever.
	acquired, err := s.repo.AcquireControlLock(ctx, s.opts.CommandTimeout+2*time.Second)
	if err != nil {
		return nil, apperrors.NewCacheError("control lock", err)
	}
	if !acquired {
		return nil, apperrors.NewStreamBusyError()
	}
	defer func() {
		if err := s.repo.ReleaseControlLock(context.WithoutCancel(ctx)); err != nil {
			logger.Warn().Err(err).Msg("Failed to release stream control lock")
		}
	}()

	cmd := &models.Command{
		Command:   command,
		RequestID: uuid.New().String(),
		IssuedBy:  issuedBy,
		IssuedAt:  time.Now().UTC(),
	}

	if err := s.repo.SendCommand(ctx, cmd); err != nil {
		return nil, apperrors.NewStreamerUnavailableError(err)
	}

	logger.Info().
		Str("command", command).
		Str("request_id", cmd.RequestID).
		Int64("issued_by", issuedBy).
		Msg("Stream control command published")

	var (
		finalState string
		reached    bool
	)
	if command == models.CommandRestart && status.State == models.StateRunning {
		finalState, reached = s.waitForRestart(ctx)
	} else {
		finalState, reached = s.waitForState(ctx, targetState(command), status.State)
	}

	result := &models.ControlResult{
		Status:    finalState,
		Restarted: command == models.CommandRestart && reached,
		Pending:   !reached,
		RequestID: cmd.RequestID,
	}

	if !reached {
		logger.Warn().
			Str("command", command).
			Str("request_id", cmd.RequestID).
			Str("observed_state", finalState).
			Msg("Streamer did not reach target state before deadline")
	}

	return result, nil
}

// checkStateConflict enforces the 409 semantics of the control endpoints.
func checkStateConflict(command, state string) error {
	switch command {
	case models.CommandStart:
		if state == models.StateRunning || state == models.StateStarting {
			return apperrors.NewStreamConflictError(command, state)
		}
	case models.CommandStop:
		if state == models.StateStopped {
			return apperrors.NewStreamConflictError(command, state)
		}
	case models.CommandRestart:
		// Restarting a stopped stream would silently behave like start;
		// the dashboard should call start explicitly.
		if state == models.StateStopped {
			return apperrors.NewStreamConflictError(command, state)
		}
	}
	return nil
}

func targetState(command string) string {
	if command == models.CommandStop {
		return models.StateStopped
	}
	return models.StateRunning
}

// waitForRestart waits for a running streamer to visibly bounce: the state
// must leave running before coming back to it. Without the first phase a
// restart would be reported complete while the old session was still up.
func (s *streamService) waitForRestart(ctx context.Context) (string, bool) {
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	deadline := time.NewTimer(s.opts.CommandTimeout)
	defer deadline.Stop()

	lastState := models.StateRunning
	bounced := false

	for {
		select {
		case <-ctx.Done():
			return lastState, false
		case <-deadline.C:
			return lastState, false
		case <-ticker.C:
			status, err := s.repo.GetStatus(ctx)
			if err != nil {
				continue
			}
			lastState = status.State
			if !bounced {
				if status.State != models.StateRunning {
					bounced = true
				}
				continue
			}
			if status.State == models.StateRunning {
				return lastState, true
			}
		}
	}
}

// waitForState polls the status hash until the target state is observed or
// the command deadline passes. Returns the last observed state, seeded with
// the state seen before the command so a silent streamer is reported as-is.
func (s *streamService) waitForState(ctx context.Context, target, observed string) (string, bool) {
	deadline := time.NewTimer(s.opts.CommandTimeout)
	defer deadline.Stop()

	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	lastState := observed

	for {
		select {
		case <-ctx.Done():
			return lastState, false
		case <-deadline.C:
			return lastState, false
		case <-ticker.C:
			status, err := s.repo.GetStatus(ctx)
			if err != nil {
				continue
			}
			lastState = status.State
			if status.State == target {
				return lastState, true
			}
		}
	}
}
