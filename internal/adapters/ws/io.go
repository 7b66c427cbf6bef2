package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mxm-1x/formiqa/internal/core"
)

const writeDeadline = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump write error")
				return
			}
		}
	}
}

// readPump drives the connection. On any read error the connection is torn
// down: hub membership is removed (which broadcasts the room's new presence
// count) and the socket is closed.
func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, c *wsConn) {
	defer func() {
		ctl.Hub.Disconnect(c.ID())
		c.Close()
		cancel()
		log.Info().Str("module", "ws").Str("cid", string(c.ID())).Msg("connection closed")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "ws").Str("cid", string(c.ID())).Msg("readPump read error")
				}
				return
			}
			ctl.handleMessage(ctx, c, data)
		}
	}
}

// handleMessage routes one inbound frame. Nothing in here may panic the
// pump: malformed input is answered with an error event and logged.
func (ctl *Controller) handleMessage(ctx context.Context, c *wsConn, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Str("module", "ws").Str("cid", string(c.ID())).Msg("message handler panic")
			_ = c.TrySend(core.ErrorEvent("Internal error"))
		}
	}()

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
		log.Warn().Err(err).Str("module", "ws").Str("cid", string(c.ID())).Msg("bad frame")
		_ = c.TrySend(core.ErrorEvent("Invalid message"))
		return
	}

	switch env.Event {
	case eventJoinSession:
		ctl.handleJoin(ctx, c, env.Data)
	case eventSubmitFeedback:
		ctl.handleSubmitFeedback(ctx, c, env.Data)
	default:
		log.Warn().Str("module", "ws").Str("event", env.Event).Msg("unknown event")
	}
}
