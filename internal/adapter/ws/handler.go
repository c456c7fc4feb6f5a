// Package ws pushes session lifecycle events to connected clients over
// WebSocket, so an approval prompt reaches the user the moment plans are
// ready instead of waiting on a poll.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// writeTimeout bounds one broadcast write to a slow client.
const writeTimeout = 5 * time.Second

// Message is the envelope for every event pushed to clients.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// conn is one connected client.
type conn struct {
	ws     *websocket.Conn
	remote string
	cancel context.CancelFunc
}

// Hub tracks connected clients and fans session events out to them.
type Hub struct {
	mu    sync.RWMutex
	conns map[*conn]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[*conn]struct{})}
}

// HandleWS upgrades the request and registers the client until it
// disconnects. Clients only listen; inbound frames are drained to detect
// the close.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	sock, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // CORS handled by middleware
	})
	if err != nil {
		slog.Error("websocket accept failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	c := &conn{ws: sock, remote: r.RemoteAddr, cancel: cancel}

	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()

	slog.Info("websocket connected", "remote", c.remote)

	go func() {
		defer func() {
			h.remove(c)
			_ = sock.Close(websocket.StatusNormalClosure, "")
		}()
		for {
			if _, _, err := sock.Read(ctx); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends one message to every connected client. A client that
// cannot be written to within the write timeout is dropped.
func (h *Hub) Broadcast(ctx context.Context, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("websocket marshal failed", "type", msg.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.conns {
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := c.ws.Write(wctx, websocket.MessageText, data)
		cancel()
		if err != nil {
			slog.Debug("websocket write failed", "remote", c.remote, "error", err)
			go h.remove(c)
		}
	}
}

// ConnectionCount returns the number of connected clients.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) remove(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[c]; ok {
		c.cancel()
		delete(h.conns, c)
		slog.Info("websocket disconnected", "remote", c.remote)
	}
}
