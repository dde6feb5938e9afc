package wall

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 120 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 64 << 10
	sendBuffer     = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type client struct {
	session *Session
	conn    *websocket.Conn
	send    chan []byte

	mu     sync.Mutex
	closed bool
}

// ServeWS upgrades the request and attaches the connection to the wall.
func (s *Session) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("wall: websocket upgrade failed", "wall_id", s.id, "error", err)
		return
	}
	c := &client{session: s, conn: conn, send: make(chan []byte, sendBuffer)}

	select {
	case s.register <- c:
	case <-s.done:
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "wall closed"))
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// offer queues msg without blocking. When the buffer is full the oldest
// queued message is dropped to make room.
func (c *client) offer(msg []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- msg:
		return
	default:
	}
	select {
	case <-c.send:
	default:
	}
	select {
	case c.send <- msg:
	default:
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *client) readPump() {
	defer func() {
		select {
		case c.session.unregister <- c:
		case <-c.session.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("wall: websocket closed", "wall_id", c.session.id, "error", err)
			}
			return
		}
		c.handle(data)
	}
}

func (c *client) handle(data []byte) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		c.offer(encode(Message{Type: TypeError, Error: "malformed message"}))
		return
	}

	switch m.Type {
	case TypePing:
		return
	case TypePointer:
		c.session.Pointer()
	case TypeCommand:
		if m.Command == nil {
			c.offer(encode(Message{Type: TypeError, Error: "missing command"}))
			return
		}
		cmd, err := m.Command.Command()
		if err != nil {
			c.offer(encode(Message{Type: TypeError, Error: err.Error()}))
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		if _, err := c.session.Submit(ctx, cmd); err != nil {
			c.offer(encode(Message{Type: TypeError, Error: err.Error()}))
		}
	default:
		c.offer(encode(Message{Type: TypeError, Error: "unknown message type " + m.Type}))
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
