package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/mxm-1x/formiqa/internal/app"
	"github.com/mxm-1x/formiqa/internal/core"
	"github.com/mxm-1x/formiqa/internal/domain"
)

type ResponseController struct {
	Sessions  core.SessionStore
	Questions core.QuestionStore
	Responses core.ResponseStore
	Activity  core.ActivityStore
	Score     app.ScoreFunc
}

type submitResponseRequest struct {
	SelectedOpt *string `json:"selectedOpt"`
	TextAnswer  *string `json:"textAnswer"`
}

// Submit is public: viewers answer without an account.
func (ctl *ResponseController) Submit(c *gin.Context) {
	qid := domain.QuestionID(c.Param("qid"))

	question, err := ctl.Questions.ByID(c.Request.Context(), qid)
	if errors.Is(err, core.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "http.responses").Msg("question lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !question.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question closed"})
		return
	}

	var req submitResponseRequest
	_ = c.ShouldBindJSON(&req)

	resp := &domain.Response{
		ID:         domain.ResponseID(uuid.NewString()),
		QuestionID: qid,
		CreatedAt:  time.Now().UTC(),
	}

	switch question.Type {
	case domain.QuestionMCQ:
		if req.SelectedOpt == nil || *req.SelectedOpt == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "selectedOpt required for MCQ"})
			return
		}
		if !question.HasOption(*req.SelectedOpt) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid option"})
			return
		}
		resp.SelectedOpt = req.SelectedOpt
	default:
		if req.TextAnswer == nil || strings.TrimSpace(*req.TextAnswer) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "textAnswer required"})
			return
		}
		resp.TextAnswer = req.TextAnswer
		resp.SentimentScore = app.ScoreOptional(ctl.Score, *req.TextAnswer)
	}

	if err := ctl.Responses.Create(c.Request.Context(), resp); err != nil {
		log.Error().Err(err).Str("module", "http.responses").Msg("create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Timeline entry is best-effort; a failed trace must not fail the vote.
	if err := ctl.Activity.Log(c.Request.Context(), &domain.ActivityLog{
		ID:        uuid.NewString(),
		SessionID: question.SessionID,
		Type:      domain.ActivityResponse,
		Metadata: map[string]any{
			"questionId": string(qid),
			"responseId": string(resp.ID),
			"type":       string(question.Type),
		},
		CreatedAt: resp.CreatedAt,
	}); err != nil {
		log.Error().Err(err).Str("module", "http.responses").Msg("activity log failed")
	}

	emit(domain.SessionRoom(question.SessionID), core.NewResponseEvent(resp))
	c.JSON(http.StatusCreated, gin.H{"success": true, "responseId": resp.ID})
}

func (ctl *ResponseController) List(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	qid := domain.QuestionID(c.Param("qid"))

	question, err := ctl.Questions.ByID(c.Request.Context(), qid)
	if errors.Is(err, core.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	session, err := ctl.Sessions.ByID(c.Request.Context(), question.SessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if session.OwnerID != owner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	responses, err := ctl.Responses.ListByQuestion(c.Request.Context(), qid)
	if err != nil {
		log.Error().Err(err).Str("module", "http.responses").Msg("list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if responses == nil {
		responses = []domain.Response{}
	}

	var aggregates any
	if question.Type == domain.QuestionMCQ {
		counts := lo.CountValuesBy(responses, func(r domain.Response) string {
			if r.SelectedOpt == nil {
				return ""
			}
			return *r.SelectedOpt
		})
		delete(counts, "")
		aggregates = counts
	}

	c.JSON(http.StatusOK, gin.H{
		"question":   question,
		"responses":  responses,
		"aggregates": aggregates,
	})
}
