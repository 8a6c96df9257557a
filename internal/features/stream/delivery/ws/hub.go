package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"broadcast-tool-backend/internal/common/logger"
	"broadcast-tool-backend/internal/features/stream/repository"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// How often the hub polls the Redis log list for new entries.
	pollInterval = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser dashboard connects cross-origin through the CORS proxy;
	// auth already happened in the HTTP middleware chain.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// LogHub fans new streamer log entries out to connected dashboard clients.
// It polls the capped Redis log list and broadcasts only the delta.
type LogHub struct {
	repo repository.StreamRepository

	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	// Closed when Run returns so register/unregister senders never block
	// on a hub that is no longer receiving.
	done chan struct{}
	mu   sync.RWMutex
}

func NewLogHub(repo repository.StreamRepository) *LogHub {
	return &LogHub{
		repo:       repo,
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Run drives the hub until ctx is cancelled.
func (h *LogHub) Run(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var lastLen int64 = -1

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.fanOut(message)
		case <-ticker.C:
			if !h.hasClients() {
				// Nobody is watching; skip the Redis round trip but
				// keep the position fresh.
				lastLen = -1
				continue
			}

			if lastLen < 0 {
				// First poll after clients (re)appeared: sync the
				// position without replaying the backlog. An oversized
				// offset makes TailLogs report the length only.
				if _, newLen, err := h.repo.TailLogs(ctx, 1<<62); err == nil {
					lastLen = newLen
				}
				continue
			}

			entries, newLen, err := h.repo.TailLogs(ctx, lastLen)
			if err != nil {
				logger.Warn().Err(err).Msg("Failed to tail streamer logs")
				continue
			}
			lastLen = newLen

			for _, entry := range entries {
				data, err := json.Marshal(entry)
				if err != nil {
					continue
				}
				h.fanOut(data)
			}
		}
	}
}

// ServeWS upgrades the request and attaches the client to the hub.
func (h *LogHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, 64),
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(c)
	go h.readPump(c)
}

func (h *LogHub) fanOut(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- message:
		default:
			// Slow consumer; drop the message rather than block the hub.
		}
	}
}

func (h *LogHub) hasClients() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients) > 0
}

func (h *LogHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		close(c.send)
		c.conn.Close()
		delete(h.clients, c)
	}
}

// readPump discards client messages; the socket is push-only. It exists to
// notice closes and answer pings.
func (h *LogHub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *LogHub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
