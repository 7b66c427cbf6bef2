package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mxm-1x/formiqa/internal/app"
	"github.com/mxm-1x/formiqa/internal/core"
	"github.com/mxm-1x/formiqa/internal/domain"
)

// FeedbackController is the REST twin of the websocket ingest path, for
// viewers that post feedback without holding a live connection.
type FeedbackController struct {
	Sessions core.SessionStore
	Feedback core.FeedbackStore
	Activity core.ActivityStore
	Score    app.ScoreFunc
}

func (ctl *FeedbackController) Submit(c *gin.Context) {
	code := c.Param("code")

	var req app.SubmitFeedback
	_ = c.ShouldBindJSON(&req)
	if req.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Feedback type is required"})
		return
	}

	session, err := ctl.Sessions.ByCode(c.Request.Context(), code)
	if errors.Is(err, core.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid session code"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "http.feedback").Msg("session lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !session.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session is inactive"})
		return
	}

	fb := &domain.Feedback{
		ID:             domain.FeedbackID(uuid.NewString()),
		SessionID:      session.ID,
		Type:           req.Type,
		SentimentScore: app.ScoreOptional(ctl.Score, strings.TrimSpace(req.Message)),
		CreatedAt:      time.Now().UTC(),
	}
	if req.Emoji != "" {
		fb.Emoji = &req.Emoji
	}
	if req.Message != "" {
		fb.Message = &req.Message
	}

	if err := ctl.Feedback.Create(c.Request.Context(), fb); err != nil {
		log.Error().Err(err).Str("module", "http.feedback").Msg("create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := ctl.Activity.Log(c.Request.Context(), &domain.ActivityLog{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		Type:      domain.ActivityFeedback,
		Metadata:  map[string]any{"feedbackId": string(fb.ID), "type": fb.Type},
		CreatedAt: fb.CreatedAt,
	}); err != nil {
		log.Error().Err(err).Str("module", "http.feedback").Msg("activity log failed")
	}

	emit(domain.SessionRoom(session.ID), core.NewFeedbackEvent(fb))
	c.JSON(http.StatusCreated, gin.H{"success": true, "feedbackId": fb.ID})
}
