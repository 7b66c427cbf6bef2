package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/mxm-1x/formiqa/internal/core"
	"github.com/mxm-1x/formiqa/internal/domain"
)

type AnalyticsController struct {
	Sessions  core.SessionStore
	Questions core.QuestionStore
	Responses core.ResponseStore
	Feedback  core.FeedbackStore
	Activity  core.ActivityStore
}

type timelinePoint struct {
	Minute string `json:"minute"`
	Count  int    `json:"count"`
}

type optionBreakdown struct {
	Option     string `json:"option"`
	Index      int    `json:"index"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type questionAnalytics struct {
	QuestionID      domain.QuestionID   `json:"questionId"`
	Type            domain.QuestionType `json:"type"`
	Title           string              `json:"title"`
	Options         []string            `json:"options"`
	IsActive        bool                `json:"isActive"`
	TotalResponses  int                 `json:"totalResponses"`
	OptionBreakdown []optionBreakdown   `json:"optionBreakdown"`
	RecentResponses []domain.Response   `json:"recentResponses"`
}

const recentResponsesCap = 20

func (ctl *AnalyticsController) Get(c *gin.Context) {
	session, ok := ctl.ownedSession(c, domain.SessionID(c.Param("id")))
	if !ok {
		return
	}
	ctx := c.Request.Context()

	questions, err := ctl.Questions.ListBySession(ctx, session.ID)
	if err != nil {
		log.Error().Err(err).Str("module", "http.analytics").Msg("questions failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	logs, err := ctl.Activity.ListBySession(ctx, session.ID)
	if err != nil {
		log.Error().Err(err).Str("module", "http.analytics").Msg("activity failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Activity timeline bucketed by minute, in first-seen order.
	minuteCounts := lo.CountValuesBy(logs, func(l domain.ActivityLog) string {
		return l.CreatedAt.Local().Format("15:04")
	})
	seen := map[string]bool{}
	timeline := make([]timelinePoint, 0, len(minuteCounts))
	for _, l := range logs {
		minute := l.CreatedAt.Local().Format("15:04")
		if seen[minute] {
			continue
		}
		seen[minute] = true
		timeline = append(timeline, timelinePoint{Minute: minute, Count: minuteCounts[minute]})
	}

	totalResponses := 0
	perQuestion := make([]questionAnalytics, 0, len(questions))
	for _, q := range questions {
		responses, err := ctl.Responses.ListByQuestion(ctx, q.ID)
		if err != nil {
			log.Error().Err(err).Str("module", "http.analytics").Msg("responses failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		totalResponses += len(responses)

		qa := questionAnalytics{
			QuestionID:      q.ID,
			Type:            q.Type,
			Title:           q.Title,
			Options:         q.Options,
			IsActive:        q.IsActive,
			TotalResponses:  len(responses),
			RecentResponses: []domain.Response{},
		}
		if q.Type == domain.QuestionMCQ {
			qa.OptionBreakdown = breakdown(q.Options, responses)
		} else {
			qa.RecentResponses = lo.Slice(responses, 0, recentResponsesCap)
		}
		perQuestion = append(perQuestion, qa)
	}

	totalFeedbacks, err := ctl.Feedback.CountBySession(ctx, session.ID)
	if err != nil {
		log.Error().Err(err).Str("module", "http.analytics").Msg("feedback count failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"totalQuestions": len(questions),
			"totalResponses": totalResponses,
			"totalFeedbacks": totalFeedbacks,
			"totalActivity":  totalResponses + totalFeedbacks,
		},
		"timeline":  timeline,
		"questions": perQuestion,
	})
}

// breakdown counts responses per option, accepting answers recorded either
// as an option index or as the option label.
func breakdown(options []string, responses []domain.Response) []optionBreakdown {
	out := make([]optionBreakdown, 0, len(options))
	total := len(responses)
	for i, option := range options {
		idx := i
		count := lo.CountBy(responses, func(r domain.Response) bool {
			if r.SelectedOpt == nil {
				return false
			}
			return *r.SelectedOpt == option || *r.SelectedOpt == strconv.Itoa(idx)
		})
		pct := 0
		if total > 0 {
			pct = count * 100 / total
		}
		out = append(out, optionBreakdown{Option: option, Index: i, Count: count, Percentage: pct})
	}
	return out
}

func (ctl *AnalyticsController) ownedSession(c *gin.Context, id domain.SessionID) (*domain.Session, bool) {
	sessions := &SessionController{Sessions: ctl.Sessions}
	return sessions.ownedSession(c, id)
}
