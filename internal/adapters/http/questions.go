package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mxm-1x/formiqa/internal/core"
	"github.com/mxm-1x/formiqa/internal/domain"
)

type QuestionController struct {
	Sessions  core.SessionStore
	Questions core.QuestionStore
}

type createQuestionRequest struct {
	Type    string   `json:"type" binding:"required"`
	Title   string   `json:"title" binding:"required"`
	Options []string `json:"options"`
}

func (ctl *QuestionController) Create(c *gin.Context) {
	session, ok := ctl.ownedSession(c, domain.SessionID(c.Param("id")))
	if !ok {
		return
	}

	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type and title required"})
		return
	}
	qtype := domain.QuestionType(req.Type)
	if qtype != domain.QuestionText && qtype != domain.QuestionMCQ {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be text or mcq"})
		return
	}
	if qtype == domain.QuestionMCQ && len(req.Options) < domain.MinMCQOptions {
		c.JSON(http.StatusBadRequest, gin.H{"error": "MCQ requires at least 2 options"})
		return
	}
	if req.Options == nil {
		req.Options = []string{}
	}

	question := &domain.Question{
		ID:        domain.QuestionID(uuid.NewString()),
		SessionID: session.ID,
		Type:      qtype,
		Title:     req.Title,
		Options:   req.Options,
		CreatedAt: time.Now().UTC(),
	}
	if err := ctl.Questions.Create(c.Request.Context(), question); err != nil {
		log.Error().Err(err).Str("module", "http.questions").Msg("create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	emit(domain.SessionRoom(session.ID), core.NewQuestionEvent(question))
	c.JSON(http.StatusCreated, gin.H{"question": question})
}

func (ctl *QuestionController) List(c *gin.Context) {
	session, ok := ctl.ownedSession(c, domain.SessionID(c.Param("id")))
	if !ok {
		return
	}
	questions, err := ctl.Questions.ListBySession(c.Request.Context(), session.ID)
	if err != nil {
		log.Error().Err(err).Str("module", "http.questions").Msg("list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (ctl *QuestionController) Activate(c *gin.Context) {
	question, ok := ctl.ownedQuestion(c, domain.QuestionID(c.Param("qid")))
	if !ok {
		return
	}

	updated, err := ctl.Questions.Activate(c.Request.Context(), question.ID)
	if err != nil {
		log.Error().Err(err).Str("module", "http.questions").Msg("activate failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	emit(domain.SessionRoom(updated.SessionID), core.QuestionActivatedEvent(updated))
	c.JSON(http.StatusOK, gin.H{"question": updated})
}

func (ctl *QuestionController) End(c *gin.Context) {
	question, ok := ctl.ownedQuestion(c, domain.QuestionID(c.Param("qid")))
	if !ok {
		return
	}

	updated, err := ctl.Questions.End(c.Request.Context(), question.ID)
	if err != nil {
		log.Error().Err(err).Str("module", "http.questions").Msg("end failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	emit(domain.SessionRoom(updated.SessionID), core.QuestionEndedEvent(updated.ID))
	c.JSON(http.StatusOK, gin.H{"question": updated})
}

// ownedQuestion loads a question and checks ownership through its session.
func (ctl *QuestionController) ownedQuestion(c *gin.Context, id domain.QuestionID) (*domain.Question, bool) {
	owner, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	question, err := ctl.Questions.ByID(c.Request.Context(), id)
	if errors.Is(err, core.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return nil, false
	}
	if err != nil {
		log.Error().Err(err).Str("module", "http.questions").Msg("lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, false
	}
	session, err := ctl.Sessions.ByID(c.Request.Context(), question.SessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	if session.OwnerID != owner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return nil, false
	}
	return question, true
}

// ownedSession mirrors SessionController.ownedSession for question routes
// rooted at /sessions/:id.
func (ctl *QuestionController) ownedSession(c *gin.Context, id domain.SessionID) (*domain.Session, bool) {
	owner, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	session, err := ctl.Sessions.ByID(c.Request.Context(), id)
	if errors.Is(err, core.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	if err != nil {
		log.Error().Err(err).Str("module", "http.questions").Msg("session lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, false
	}
	if session.OwnerID != owner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return nil, false
	}
	return session, true
}
