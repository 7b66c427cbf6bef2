package ws

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mxm-1x/formiqa/internal/core"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrClosed       = errors.New("connection closed")
)

// envelope is the wire framing for both directions: a named event plus its
// payload.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// wsConn adapts one *websocket.Conn to core.EventConn. Outbound events are
// queued on a buffered channel drained by the write pump; a full queue drops
// the event rather than blocking the sender.
type wsConn struct {
	id   core.ConnID
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func newWSConn(id core.ConnID, conn *websocket.Conn) *wsConn {
	return &wsConn{
		id:   id,
		conn: conn,
		send: make(chan []byte, 32),
	}
}

func (c *wsConn) ID() core.ConnID { return c.id }

func (c *wsConn) TrySend(e core.Event) error {
	data, err := json.Marshal(struct {
		Event string `json:"event"`
		Data  any    `json:"data"`
	}{Event: e.Name, Data: e.Data})
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Str("event", e.Name).Msg("marshal event")
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- data:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}
