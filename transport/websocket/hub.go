package websocket

import (
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// Hub - live connections by id. Implements the coordinator's Notifier.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]*client
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With("component", "hub"),
		clients: make(map[string]*client),
	}
}

// Notify - queues event for conn without blocking. A client whose queue is full
// is disconnected, so it never sees a gap in the event stream.
func (that *Hub) Notify(conn string, event entity.Event) {
	data, err := encodeEvent(event)
	if err != nil {
		that.logger.Error("failed to encode event", "conn", conn, "error", err)
		return
	}

	that.mu.RLock()
	c, ok := that.clients[conn]
	if !ok {
		that.mu.RUnlock()
		that.logger.Debug("event for unknown connection dropped", "conn", conn, "action", event.Action)
		return
	}

	select {
	case c.send <- data:
		that.mu.RUnlock()
		return
	default:
	}
	that.mu.RUnlock()

	that.logger.Warn("send queue is full, closing connection", "conn", conn, "action", event.Action)
	that.unregister(c)
}

func (that *Hub) register(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.clients[c.id] = c
}

// unregister - idempotent. Closing send makes the writer say goodbye and close the socket.
func (that *Hub) unregister(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if current, ok := that.clients[c.id]; ok && current == c {
		delete(that.clients, c.id)
		close(c.send)
	}
}

func (that *Hub) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.clients)
}

// CloseAll - used on shutdown.
func (that *Hub) CloseAll() {
	that.mu.Lock()
	defer that.mu.Unlock()

	for id, c := range that.clients {
		delete(that.clients, id)
		close(c.send)
	}
}
