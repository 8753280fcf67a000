package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dropfour/dropfour/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong before the connection is dropped
	pongWait = 60 * time.Second

	// Ping interval; must be shorter than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size; intents are tiny
	maxMessageSize = 4096

	// Buffer size for outgoing messages
	sendBufferSize = 64
)

// Client is one live websocket connection
type Client struct {
	session     model.SessionID
	conn        *websocket.Conn
	send        chan []byte
	connectedAt time.Time

	// Room the connection has joined, empty until the first successful
	// join_room. Guarded by mu: the read pump writes it, the disconnect
	// path reads it.
	mu   sync.Mutex
	room model.RoomToken
}

// newClient wraps an upgraded connection
func newClient(session model.SessionID, conn *websocket.Conn) *Client {
	return &Client{
		session:     session,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// Session returns the connection's session id
func (c *Client) Session() model.SessionID {
	return c.session
}

// setRoom records which room the connection belongs to
func (c *Client) setRoom(token model.RoomToken) {
	c.mu.Lock()
	c.room = token
	c.mu.Unlock()
}

// Room returns the joined room token, or empty
func (c *Client) Room() model.RoomToken {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

// enqueue queues a targeted message for this connection only. Like
// broadcasts it is fire-and-forget: a full buffer drops the message.
func (c *Client) enqueue(message []byte) {
	select {
	case c.send <- message:
	default:
	}
}

// readPump relays inbound intents to the gateway until the connection
// drops, then triggers disconnect handling
func (c *Client) readPump(g *Gateway) {
	defer func() {
		g.handleDisconnect(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		g.dispatch(c, message)
	}
}

// writePump drains the send queue to the socket and keeps the connection
// alive with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
