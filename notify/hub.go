package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// time allowed to write one message to a dashboard
	writeWait = 10 * time.Second

	// messages queued per dashboard before it is dropped as too slow
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// client is one dashboard connection. Only writePump writes to conn.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub keeps the websocket connections of open dashboards and pushes every
// event to them so they can refresh their incident lists. Notify never waits
// on a connection: each one has its own queue and writer.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub returns an empty Hub
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// ServeHTTP upgrades the request and holds the connection until the client leaves
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnw("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	zap.S().Debugw("dashboard connected", "remote", r.RemoteAddr)

	go h.writePump(c)

	// Keep connection alive
	for {
		if _, _, err := conn.NextReader(); err != nil {
			h.remove(c)
			zap.S().Debugw("dashboard disconnected", "remote", r.RemoteAddr)
			return
		}
	}
}

// Len returns the number of connected clients
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Notify implements Notifier. A dashboard whose queue is full is dropped.
func (h *Hub) Notify(_ context.Context, ev Event) {
	msg, err := json.Marshal(map[string]interface{}{
		"event": ev.Type,
		"data":  ev,
	})
	if err != nil {
		zap.S().Errorw("failed to encode dashboard event", "event", ev.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			zap.S().Warnw("dropping slow dashboard connection", "remote", c.conn.RemoteAddr().String())
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// writePump sends queued messages until the queue is closed or a write fails
func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			zap.S().Warnw("dropping dashboard connection", "error", err)
			h.remove(c)
			return
		}
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// remove unregisters c and stops its writer. It is safe to call more than once.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}
