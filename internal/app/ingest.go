package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mxm-1x/formiqa/internal/core"
	"github.com/mxm-1x/formiqa/internal/domain"
)

// ScoreFunc scores free text for sentiment. Pure function, no side effects.
type ScoreFunc func(text string) int

// SubmitFeedback is the client payload of a submit-feedback message.
type SubmitFeedback struct {
	Type    string `json:"type"`
	Emoji   string `json:"emoji,omitempty"`
	Message string `json:"message,omitempty"`
}

// Ingest handles feedback arriving over an already-joined connection:
// validate, score, persist, broadcast to the room, ack the sender.
type Ingest struct {
	Hub      *Hub
	Feedback core.FeedbackStore
	Score    ScoreFunc
}

func NewIngest(hub *Hub, feedback core.FeedbackStore, score ScoreFunc) *Ingest {
	return &Ingest{Hub: hub, Feedback: feedback, Score: score}
}

func (in *Ingest) Submit(ctx context.Context, conn core.EventConn, req SubmitFeedback) {
	sessionID, room, joined := in.Hub.SessionOf(conn.ID())
	if !joined {
		_ = conn.TrySend(core.ErrorEvent(MsgJoinFirst))
		return
	}
	if req.Type == "" {
		_ = conn.TrySend(core.ErrorEvent(MsgTypeRequired))
		return
	}

	fb := &domain.Feedback{
		ID:             domain.FeedbackID(uuid.NewString()),
		SessionID:      sessionID,
		Type:           req.Type,
		SentimentScore: ScoreOptional(in.Score, req.Message),
		CreatedAt:      time.Now().UTC(),
	}
	if req.Emoji != "" {
		fb.Emoji = &req.Emoji
	}
	if req.Message != "" {
		fb.Message = &req.Message
	}

	if err := in.Feedback.Create(ctx, fb); err != nil {
		log.Error().Err(err).Str("module", "app.ingest").Str("session", string(sessionID)).Msg("feedback create failed")
		_ = conn.TrySend(core.ErrorEvent(MsgFeedbackFailed))
		return
	}

	// Broadcast strictly after persistence; the ack goes to the sender only.
	in.Hub.Broadcast(room, core.NewFeedbackEvent(fb))
	_ = conn.TrySend(core.FeedbackAckEvent(fb.ID))

	log.Info().Str("module", "app.ingest").Str("session", string(sessionID)).
		Str("feedback", string(fb.ID)).Msg("feedback submitted")
}

// ScoreOptional applies score to text, returning nil for empty text. Shared
// with the HTTP feedback and response controllers.
func ScoreOptional(score ScoreFunc, text string) *int {
	if text == "" || score == nil {
		return nil
	}
	v := score(text)
	return &v
}
