package hub

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hi-ethereal/free-bird-server/internal/config"
	"github.com/hi-ethereal/free-bird-server/internal/domain"
	"github.com/hi-ethereal/free-bird-server/pkg/log"
)

// DisconnectHandler is called once when a client's read pump exits.
type DisconnectHandler func(*Client)

// Client wraps a single WebSocket connection (one peer).
type Client struct {
	ID      string
	Hub     *Hub
	Conn    *websocket.Conn
	Send    chan []byte
	Session *domain.Session

	config            config.WebSocketConfig
	closed            atomic.Bool
	disconnectHandler DisconnectHandler
}

// NewClient creates a client for an upgraded connection.
func NewClient(id string, hub *Hub, conn *websocket.Conn, cfg config.WebSocketConfig) *Client {
	return &Client{
		ID:      id,
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		Session: domain.NewSession(id),
		config:  cfg,
	}
}

// SetDisconnectHandler sets the handler to be called on disconnect.
func (c *Client) SetDisconnectHandler(handler DisconnectHandler) {
	c.disconnectHandler = handler
}

// IsOpen reports whether the connection is still in a sendable state.
func (c *Client) IsOpen() bool {
	return !c.closed.Load()
}

// SendRaw queues raw frame bytes for delivery. The push never blocks: a
// full buffer means the frame is dropped, which keeps a stalled peer from
// holding up the event path.
func (c *Client) SendRaw(data []byte) {
	select {
	case c.Send <- data:
	default:
	}
}

// SendMessage serializes a message and queues it for delivery.
func (c *Client) SendMessage(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	c.SendRaw(data)
	return nil
}

// ReadPump pumps messages from the WebSocket connection to the handler.
// All reads of a connection happen on this goroutine.
func (c *Client) ReadPump(handler func(*Client, []byte)) {
	defer func() {
		c.closed.Store(true)
		if c.disconnectHandler != nil {
			c.disconnectHandler(c)
		}
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				l := log.L()
				l.Debug().Err(err).Str("client_id", c.ID).Msg("websocket read error")
			}
			break
		}

		c.Session.UpdateActivity()
		handler(c, message)
	}
}

// WritePump pumps queued messages to the WebSocket connection and keeps
// the connection alive with periodic pings. All writes happen on this
// goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		c.closed.Store(true)
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
