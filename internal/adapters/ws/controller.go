// Package ws is the realtime transport adapter: it upgrades HTTP requests
// to websocket connections and bridges wire messages to the app layer.
package ws

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mxm-1x/formiqa/internal/app"
	"github.com/mxm-1x/formiqa/internal/core"
)

// Client->server event names; the server->client half lives in core.
const (
	eventJoinSession    = "join-session"
	eventSubmitFeedback = "submit-feedback"
)

type Controller struct {
	Hub       *app.Hub
	Gateway   *app.Gateway
	Ingest    *app.Ingest
	ReadLimit int64
}

func NewController(hub *app.Hub, gateway *app.Gateway, ingest *app.Ingest, readLimit int64) *Controller {
	return &Controller{Hub: hub, Gateway: gateway, Ingest: ingest, ReadLimit: readLimit}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the request and runs the connection's pumps. Returns once
// the pumps are started; the connection lives until the peer goes away.
func (ctl *Controller) Handle(ctx context.Context, c *gin.Context) {
	sock, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("upgrade failed")
		return
	}
	if ctl.ReadLimit > 0 {
		sock.SetReadLimit(ctl.ReadLimit)
	}

	conn := newWSConn(core.ConnID(uuid.NewString()), sock)
	ctl.Hub.Connect(conn)
	log.Info().Str("module", "ws").Str("cid", string(conn.ID())).
		Str("ct", c.GetString("client_token")).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, conn)
}
