package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "broadcast-tool-backend/internal/common/errors"
	"broadcast-tool-backend/internal/features/stream/models"
)

// fakeRepository scripts the streamer side of the Redis contract. Each call
// to GetStatus pops the next state from the script; the last state repeats.
type fakeRepository struct {
	mu sync.Mutex

	states    []string
	stateIdx  int
	locked    bool
	lockBusy  bool
	commands  []*models.Command
	logs      []models.LogEntry
	heartbeat bool
}

func (r *fakeRepository) GetStatus(ctx context.Context) (*models.Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state := r.states[r.stateIdx]
	if r.stateIdx < len(r.states)-1 {
		r.stateIdx++
	}
	return &models.Status{State: state}, nil
}

func (r *fakeRepository) GetMetrics(ctx context.Context) (*models.Metrics, error) {
	return &models.Metrics{Stale: !r.heartbeat}, nil
}

func (r *fakeRepository) HeartbeatAlive(ctx context.Context) (bool, error) {
	return r.heartbeat, nil
}

func (r *fakeRepository) GetLogs(ctx context.Context, limit int) ([]models.LogEntry, error) {
	return r.logs, nil
}

func (r *fakeRepository) TailLogs(ctx context.Context, lastLen int64) ([]models.LogEntry, int64, error) {
	return nil, int64(len(r.logs)), nil
}

func (r *fakeRepository) SendCommand(ctx context.Context, cmd *models.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, cmd)
	return nil
}

func (r *fakeRepository) AcquireControlLock(ctx context.Context, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lockBusy {
		return false, nil
	}
	r.locked = true
	return true, nil
}

func (r *fakeRepository) ReleaseControlLock(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locked = false
	return nil
}

func (r *fakeRepository) sentCommands() []*models.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// fastOptions keeps control round trips in the millisecond range for tests.
func fastOptions() Options {
	return Options{
		CommandTimeout: 150 * time.Millisecond,
		PollInterval:   10 * time.Millisecond,
	}
}

func assertCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

func TestStartFromStopped(t *testing.T) {
	repo := &fakeRepository{states: []string{
		models.StateStopped,  // conflict check
		models.StateStarting, // first poll
		models.StateRunning,  // streamer came up
	}}
	svc := NewStreamService(repo, fastOptions())

	result, err := svc.Start(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, models.StateRunning, result.Status)
	assert.False(t, result.Pending)
	assert.NotEmpty(t, result.RequestID)

	cmds := repo.sentCommands()
	require.Len(t, cmds, 1)
	assert.Equal(t, models.CommandStart, cmds[0].Command)
	assert.Equal(t, int64(7), cmds[0].IssuedBy)
	assert.False(t, repo.locked, "control lock must be released")
}

func TestStartWhileRunningConflicts(t *testing.T) {
	repo := &fakeRepository{states: []string{models.StateRunning}}
	svc := NewStreamService(repo, fastOptions())

	_, err := svc.Start(context.Background(), 7)
	assertCode(t, err, apperrors.ErrCodeStreamConflict)
	assert.Empty(t, repo.sentCommands(), "no command may be queued on conflict")
}

func TestStartWhileStartingConflicts(t *testing.T) {
	repo := &fakeRepository{states: []string{models.StateStarting}}
	svc := NewStreamService(repo, fastOptions())

	_, err := svc.Start(context.Background(), 7)
	assertCode(t, err, apperrors.ErrCodeStreamConflict)
}

func TestStopWhileStoppedConflicts(t *testing.T) {
	repo := &fakeRepository{states: []string{models.StateStopped}}
	svc := NewStreamService(repo, fastOptions())

	_, err := svc.Stop(context.Background(), 7)
	assertCode(t, err, apperrors.ErrCodeStreamConflict)
}

func TestRestartWhileStoppedConflicts(t *testing.T) {
	repo := &fakeRepository{states: []string{models.StateStopped}}
	svc := NewStreamService(repo, fastOptions())

	_, err := svc.Restart(context.Background(), 7)
	assertCode(t, err, apperrors.ErrCodeStreamConflict)
}

func TestStartFromErrorStateAllowed(t *testing.T) {
	repo := &fakeRepository{states: []string{
		models.StateError,
		models.StateStarting,
		models.StateRunning,
	}}
	svc := NewStreamService(repo, fastOptions())

	result, err := svc.Start(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, models.StateRunning, result.Status)
}

func TestControlLockBusy(t *testing.T) {
	repo := &fakeRepository{states: []string{models.StateStopped}, lockBusy: true}
	svc := NewStreamService(repo, fastOptions())

	_, err := svc.Start(context.Background(), 7)
	assertCode(t, err, apperrors.ErrCodeStreamBusy)
	assert.Empty(t, repo.sentCommands())
}

func TestStopReachesStopped(t *testing.T) {
	repo := &fakeRepository{states: []string{
		models.StateRunning,
		models.StateRunning,
		models.StateStopped,
	}}
	svc := NewStreamService(repo, fastOptions())

	result, err := svc.Stop(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, models.StateStopped, result.Status)
	assert.False(t, result.Pending)
}

func TestStartPendingWhenStreamerSilent(t *testing.T) {
	// The streamer never leaves starting before the deadline.
	repo := &fakeRepository{states: []string{
		models.StateStopped,
		models.StateStarting,
	}}
	svc := NewStreamService(repo, fastOptions())

	start := time.Now()
	result, err := svc.Start(context.Background(), 7)
	require.NoError(t, err)

	assert.True(t, result.Pending)
	assert.Equal(t, models.StateStarting, result.Status)
	assert.Less(t, time.Since(start), 3*time.Second, "control must answer inside the dashboard budget")
	require.Len(t, repo.sentCommands(), 1, "command stays queued even when pending")
}

func TestStopPendingReportsObservedState(t *testing.T) {
	// The streamer never acknowledges the stop: the reported state must be
	// the one actually observed, not a phantom starting.
	repo := &fakeRepository{states: []string{models.StateRunning}}
	svc := NewStreamService(repo, fastOptions())

	result, err := svc.Stop(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, result.Pending)
	assert.Equal(t, models.StateRunning, result.Status)
}

func TestRestartRequiresBounce(t *testing.T) {
	// State never leaves running: the old session is still up, so the
	// restart must not be reported complete.
	repo := &fakeRepository{states: []string{models.StateRunning}}
	svc := NewStreamService(repo, fastOptions())

	result, err := svc.Restart(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, result.Pending)
	assert.False(t, result.Restarted)
}

func TestRestartObservesBounce(t *testing.T) {
	repo := &fakeRepository{states: []string{
		models.StateRunning,  // conflict check
		models.StateRunning,  // old session still up
		models.StateStarting, // bounce observed
		models.StateRunning,  // new session
	}}
	svc := NewStreamService(repo, fastOptions())

	result, err := svc.Restart(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, result.Restarted)
	assert.False(t, result.Pending)
	assert.Equal(t, models.StateRunning, result.Status)
}

func TestRestartFromErrorWaitsForRunning(t *testing.T) {
	// A dead session has no bounce to observe; reaching running is enough.
	repo := &fakeRepository{states: []string{
		models.StateError,
		models.StateStarting,
		models.StateRunning,
	}}
	svc := NewStreamService(repo, fastOptions())

	result, err := svc.Restart(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, result.Restarted)
	assert.Equal(t, models.StateRunning, result.Status)
}

func TestGetStatusPassthrough(t *testing.T) {
	repo := &fakeRepository{states: []string{models.StateRunning}}
	svc := NewStreamService(repo, fastOptions())

	status, err := svc.GetStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StateRunning, status.State)
}
