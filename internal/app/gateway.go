package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/mxm-1x/formiqa/internal/core"
	"github.com/mxm-1x/formiqa/internal/domain"
)

// Human-readable rejection messages delivered on the error event. These are
// shown verbatim in the viewer UI.
const (
	MsgCodeRequired    = "Session code is required"
	MsgInvalidCode     = "Invalid session code"
	MsgSessionInactive = "Session is no longer active"
	MsgJoinFailed      = "Failed to join session"
	MsgJoinFirst       = "Join a session first"
	MsgTypeRequired    = "Feedback type is required"
	MsgFeedbackFailed  = "Failed to submit feedback"
)

// Gateway authorizes join requests against the session store and grants
// room membership. Rejections go back to the requesting connection only;
// they never tear the transport down.
type Gateway struct {
	Hub      *Hub
	Sessions core.SessionStore
}

func NewGateway(hub *Hub, sessions core.SessionStore) *Gateway {
	return &Gateway{Hub: hub, Sessions: sessions}
}

// Join handles a join-session request carrying a session code.
func (g *Gateway) Join(ctx context.Context, conn core.EventConn, code string) {
	if code == "" {
		_ = conn.TrySend(core.ErrorEvent(MsgCodeRequired))
		return
	}

	session, err := g.Sessions.ByCode(ctx, code)
	if errors.Is(err, core.ErrNotFound) {
		_ = conn.TrySend(core.ErrorEvent(MsgInvalidCode))
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "app.gateway").Str("code", code).Msg("session lookup failed")
		_ = conn.TrySend(core.ErrorEvent(MsgJoinFailed))
		return
	}
	if !session.IsActive {
		_ = conn.TrySend(core.ErrorEvent(MsgSessionInactive))
		return
	}

	room := domain.SessionRoom(session.ID)
	g.Hub.Join(conn.ID(), room, session.ID, code)
	_ = conn.TrySend(core.SessionJoinedEvent(session))

	log.Info().Str("module", "app.gateway").Str("cid", string(conn.ID())).
		Str("room", string(room)).Msg("join accepted")
}
