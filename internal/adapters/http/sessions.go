package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mxm-1x/formiqa/internal/core"
	"github.com/mxm-1x/formiqa/internal/domain"
)

type SessionController struct {
	Sessions core.SessionStore
	Feedback core.FeedbackStore
}

type createSessionRequest struct {
	Title      string `json:"title"`
	Visibility string `json:"visibility"`
}

func (ctl *SessionController) Create(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req createSessionRequest
	_ = c.ShouldBindJSON(&req)
	if req.Title == "" {
		req.Title = "Untitled Session"
	}
	visibility := domain.SessionVisibility(req.Visibility)
	if visibility != domain.VisibilityPrivate {
		visibility = domain.VisibilityPublic
	}

	session := &domain.Session{
		ID:         domain.SessionID(uuid.NewString()),
		OwnerID:    owner,
		Title:      req.Title,
		Visibility: visibility,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}

	// Codes collide rarely; regenerate until the unique index is happy.
	for {
		session.Code = domain.NewSessionCode()
		err := ctl.Sessions.Create(c.Request.Context(), session)
		if errors.Is(err, core.ErrConflict) {
			continue
		}
		if err != nil {
			log.Error().Err(err).Str("module", "http.sessions").Msg("create failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		break
	}

	c.JSON(http.StatusCreated, gin.H{"session": session})
}

func (ctl *SessionController) GetByCode(c *gin.Context) {
	code := c.Param("code")
	session, err := ctl.Sessions.ByCode(c.Request.Context(), code)
	if errors.Is(err, core.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "http.sessions").Msg("lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (ctl *SessionController) List(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	sessions, total, err := ctl.Sessions.ListByOwner(c.Request.Context(), owner, page, pageSize)
	if err != nil {
		log.Error().Err(err).Str("module", "http.sessions").Msg("list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"meta":     gin.H{"page": page, "pageSize": pageSize, "total": total},
	})
}

func (ctl *SessionController) End(c *gin.Context) {
	session, ok := ctl.ownedSession(c, domain.SessionID(c.Param("id")))
	if !ok {
		return
	}

	updated, err := ctl.Sessions.End(c.Request.Context(), session.ID)
	if err != nil {
		log.Error().Err(err).Str("module", "http.sessions").Msg("end failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": updated})
}

func (ctl *SessionController) ListFeedback(c *gin.Context) {
	session, ok := ctl.ownedSession(c, domain.SessionID(c.Param("id")))
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))

	feedbacks, total, err := ctl.Feedback.ListBySession(c.Request.Context(), session.ID, page, pageSize)
	if err != nil {
		log.Error().Err(err).Str("module", "http.sessions").Msg("feedback list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if feedbacks == nil {
		feedbacks = []domain.Feedback{}
	}
	c.JSON(http.StatusOK, gin.H{
		"feedbacks": feedbacks,
		"meta":      gin.H{"page": page, "pageSize": pageSize, "total": total},
	})
}

// ownedSession loads a session and enforces that the caller owns it. On
// failure the response has already been written.
func (ctl *SessionController) ownedSession(c *gin.Context, id domain.SessionID) (*domain.Session, bool) {
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
		log.Error().Err(err).Str("module", "http.sessions").Msg("lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, false
	}
	if session.OwnerID != owner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return nil, false
	}
	return session, true
}
