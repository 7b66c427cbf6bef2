package ws

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/mxm-1x/formiqa/internal/app"
	"github.com/mxm-1x/formiqa/internal/core"
)

func (ctl *Controller) handleJoin(ctx context.Context, c *wsConn, data json.RawMessage) {
	var p struct {
		SessionCode string `json:"sessionCode"`
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &p); err != nil {
			log.Warn().Err(err).Str("module", "ws").Str("cid", string(c.ID())).Msg("bad join payload")
			_ = c.TrySend(core.ErrorEvent("Invalid message"))
			return
		}
	}
	ctl.Gateway.Join(ctx, c, p.SessionCode)
}

func (ctl *Controller) handleSubmitFeedback(ctx context.Context, c *wsConn, data json.RawMessage) {
	var p app.SubmitFeedback
	if len(data) > 0 {
		if err := json.Unmarshal(data, &p); err != nil {
			log.Warn().Err(err).Str("module", "ws").Str("cid", string(c.ID())).Msg("bad feedback payload")
			_ = c.TrySend(core.ErrorEvent("Invalid message"))
			return
		}
	}
	ctl.Ingest.Submit(ctx, c, p)
}
