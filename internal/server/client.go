package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Client is one websocket connection to the control page.
type Client struct {
	id      string
	hub     *Hub
	session *Session
	conn    *websocket.Conn
	send    chan []byte
}

// NewClient wraps conn with a fresh identifier.
func NewClient(hub *Hub, session *Session, conn *websocket.Conn) *Client {
	return &Client{
		id:      uuid.NewString(),
		hub:     hub,
		session: session,
		conn:    conn,
		send:    make(chan []byte, 64),
	}
}

// ID returns the client identifier.
func (c *Client) ID() string { return c.id }

// ReadPump forwards control commands from the connection to the session.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(ctx, c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("websocket read failed", "client", c.id, "err", err)
			}
			return
		}
		var cmd Command
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.hub.log.Warn("malformed command", "client", c.id, "err", err)
			continue
		}
		cmd.client = c.id
		if !c.session.Submit(ctx, cmd) {
			return
		}
	}
}

// WritePump writes queued frames and keepalive pings to the connection.
func (c *Client) WritePump() {
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
				// The hub closed the channel.
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
