// Package http wires the REST surface and the websocket upgrade endpoint.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mxm-1x/formiqa/internal/adapters/ws"
	"github.com/mxm-1x/formiqa/internal/app"
	"github.com/mxm-1x/formiqa/internal/config"
	"github.com/mxm-1x/formiqa/internal/core"
)

// Stores bundles the persistence collaborators the controllers need.
type Stores struct {
	Sessions  core.SessionStore
	Questions core.QuestionStore
	Responses core.ResponseStore
	Feedback  core.FeedbackStore
	Users     core.UserStore
	Activity  core.ActivityStore
}

func SetupRouter(ctx context.Context, cfg *config.Config, stores Stores, wsCtl *ws.Controller, score app.ScoreFunc) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.CookieSecret))
	r.Use(sessions.Sessions("FormiqaSession", store))
	r.Use(ClientTokenMiddleware())

	auth := &AuthController{Users: stores.Users, Secret: cfg.JWTSecret}
	sessionCtl := &SessionController{Sessions: stores.Sessions, Feedback: stores.Feedback}
	questionCtl := &QuestionController{Sessions: stores.Sessions, Questions: stores.Questions}
	responseCtl := &ResponseController{
		Sessions:  stores.Sessions,
		Questions: stores.Questions,
		Responses: stores.Responses,
		Activity:  stores.Activity,
		Score:     score,
	}
	feedbackCtl := &FeedbackController{
		Sessions: stores.Sessions,
		Feedback: stores.Feedback,
		Activity: stores.Activity,
		Score:    score,
	}
	analyticsCtl := &AnalyticsController{
		Sessions:  stores.Sessions,
		Questions: stores.Questions,
		Responses: stores.Responses,
		Feedback:  stores.Feedback,
		Activity:  stores.Activity,
	}
	feedbackLimiter := NewRateLimiter(cfg.FeedbackRateLimit, time.Duration(cfg.FeedbackRateWindowSec)*time.Second)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	requireAuth := AuthRequired(cfg.JWTSecret)

	api.POST("/auth/signup", auth.Signup)
	api.POST("/auth/login", auth.Login)

	api.POST("/sessions", requireAuth, sessionCtl.Create)
	api.GET("/sessions", requireAuth, sessionCtl.List)
	api.GET("/sessions/code/:code", sessionCtl.GetByCode)
	api.POST("/sessions/:id/end", requireAuth, sessionCtl.End)
	api.GET("/sessions/:id/feedbacks", requireAuth, sessionCtl.ListFeedback)
	api.GET("/sessions/:id/analytics", requireAuth, analyticsCtl.Get)
	api.POST("/sessions/:id/questions", requireAuth, questionCtl.Create)
	api.GET("/sessions/:id/questions", requireAuth, questionCtl.List)

	api.POST("/questions/:qid/activate", requireAuth, questionCtl.Activate)
	api.POST("/questions/:qid/end", requireAuth, questionCtl.End)
	api.POST("/questions/:qid/responses", responseCtl.Submit)
	api.GET("/questions/:qid/responses", requireAuth, responseCtl.List)

	api.POST("/feedback/:code", feedbackLimiter.Middleware(), feedbackCtl.Submit)

	api.GET("/ws", func(c *gin.Context) {
		wsCtl.Handle(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
