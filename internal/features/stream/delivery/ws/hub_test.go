package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"broadcast-tool-backend/internal/features/stream/models"
)

type fakeStreamRepository struct{}

func (fakeStreamRepository) GetStatus(ctx context.Context) (*models.Status, error) {
	return &models.Status{State: models.StateRunning}, nil
}

func (fakeStreamRepository) GetMetrics(ctx context.Context) (*models.Metrics, error) {
	return &models.Metrics{}, nil
}

func (fakeStreamRepository) HeartbeatAlive(ctx context.Context) (bool, error) {
	return true, nil
}

func (fakeStreamRepository) GetLogs(ctx context.Context, limit int) ([]models.LogEntry, error) {
	return nil, nil
}

func (fakeStreamRepository) TailLogs(ctx context.Context, lastLen int64) ([]models.LogEntry, int64, error) {
	return nil, 0, nil
}

func (fakeStreamRepository) SendCommand(ctx context.Context, cmd *models.Command) error {
	return nil
}

func (fakeStreamRepository) AcquireControlLock(ctx context.Context, ttl time.Duration) (bool, error) {
	return true, nil
}

func (fakeStreamRepository) ReleaseControlLock(ctx context.Context) error {
	return nil
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestHubBroadcastReachesClient(t *testing.T) {
	hub := NewLogHub(fakeStreamRepository{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()

	waitFor(t, hub.hasClients)

	hub.broadcast <- []byte(`{"level":"info","message":"segment uploaded"}`)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(payload), "segment uploaded")
}

func TestClientDisconnectUnregisters(t *testing.T) {
	hub := NewLogHub(fakeStreamRepository{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	waitFor(t, hub.hasClients)

	conn.Close()
	waitFor(t, func() bool { return !hub.hasClients() })
}

func TestServeWSReturnsAfterShutdown(t *testing.T) {
	// A connection arriving after the hub stopped must not leave the
	// handler goroutine stuck on the register channel.
	hub := NewLogHub(fakeStreamRepository{})
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	cancel()
	<-hub.done

	served := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r)
		close(served)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err == nil {
		defer conn.Close()
	}

	select {
	case <-served:
	case <-time.After(2 * time.Second):
		t.Fatal("ServeWS still blocked after hub shutdown")
	}
	assert.False(t, hub.hasClients())
}
