package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// readPump - one message at a time, so a connection's requests are handled in order.
func (that *Server) readPump(c *client) {
	log := that.logger.With("method", "readPump", "conn", c.id)

	defer func() {
		that.coordinator.Disconnect(c.id)
		that.hub.unregister(c)
		_ = c.conn.Close()
		log.Info("WebSocket connection closed")
	}()

	c.conn.SetReadLimit(that.conf.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(that.conf.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(that.conf.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("error reading message", "error", err)
			}
			return
		}

		that.handleMessage(c.id, data)
	}
}

func (that *Server) writePump(c *client) {
	log := that.logger.With("method", "writePump", "conn", c.id)

	ticker := time.NewTicker(that.conf.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(that.conf.WriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn("error writing message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(that.conf.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug("ping failed", "error", err)
				return
			}
		}
	}
}
