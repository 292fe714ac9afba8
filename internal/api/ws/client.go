package ws

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

// Client is one connected websocket. A client is bound to at most one
// (room, seat) pair, or attached to a room as a spectator, or unbound.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	id        string // spectator/connection identity
	roomCode  string
	seat      int // -1 while unbound or spectating
	spectator bool
}

func (c *Client) bound() bool {
	return c.roomCode != "" && c.seat >= 0
}

// writePump drains the send channel and keeps the connection alive with
// periodic pings. One writer goroutine per connection; messages queued by
// Broadcast are delivered in order.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
