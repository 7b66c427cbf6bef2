package core

import (
	"time"

	"github.com/mxm-1x/formiqa/internal/domain"
)

// Wire event names. Client->server names live in the ws adapter; these are
// the server->client half of the contract.
const (
	EventSessionJoined     = "session-joined"
	EventPresenceUpdate    = "presence-update"
	EventNewFeedback       = "new-feedback"
	EventFeedbackSubmitted = "feedback-submitted"
	EventNewQuestion       = "new-question"
	EventQuestionActivated = "question-activated"
	EventQuestionEnded     = "question-ended"
	EventNewResponse       = "new-response"
	EventError             = "error"
)

// Event is a named payload crossing the realtime channel. Data is always one
// of the payload structs below; construct events through the helpers so the
// event set stays closed.
type Event struct {
	Name string
	Data any
}

// SessionView is the public slice of a session sent to a joining viewer.
type SessionView struct {
	ID    domain.SessionID `json:"id"`
	Code  string           `json:"code"`
	Title string           `json:"title"`
}

type SessionJoinedPayload struct {
	Session SessionView `json:"session"`
}

type PresencePayload struct {
	OnlineCount int `json:"onlineCount"`
}

type FeedbackPayload struct {
	ID             domain.FeedbackID `json:"id"`
	Type           string            `json:"type"`
	Emoji          *string           `json:"emoji"`
	Message        *string           `json:"message"`
	SentimentScore *int              `json:"sentimentScore"`
	CreatedAt      time.Time         `json:"createdAt"`
}

type FeedbackAckPayload struct {
	Success    bool              `json:"success"`
	FeedbackID domain.FeedbackID `json:"feedbackId"`
}

type QuestionPayload struct {
	ID        domain.QuestionID   `json:"id"`
	SessionID domain.SessionID    `json:"sessionId"`
	Type      domain.QuestionType `json:"type"`
	Title     string              `json:"title"`
	Options   []string            `json:"options"`
	IsActive  *bool               `json:"isActive,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
}

type QuestionEndedPayload struct {
	QuestionID domain.QuestionID `json:"questionId"`
}

type ResponsePayload struct {
	ID             domain.ResponseID `json:"id"`
	QuestionID     domain.QuestionID `json:"questionId"`
	SelectedOpt    *string           `json:"selectedOpt"`
	TextAnswer     *string           `json:"textAnswer"`
	SentimentScore *int              `json:"sentimentScore"`
	CreatedAt      time.Time         `json:"createdAt"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func SessionJoinedEvent(s *domain.Session) Event {
	return Event{Name: EventSessionJoined, Data: SessionJoinedPayload{
		Session: SessionView{ID: s.ID, Code: s.Code, Title: s.Title},
	}}
}

func PresenceEvent(count int) Event {
	return Event{Name: EventPresenceUpdate, Data: PresencePayload{OnlineCount: count}}
}

func NewFeedbackEvent(f *domain.Feedback) Event {
	return Event{Name: EventNewFeedback, Data: FeedbackPayload{
		ID:             f.ID,
		Type:           f.Type,
		Emoji:          f.Emoji,
		Message:        f.Message,
		SentimentScore: f.SentimentScore,
		CreatedAt:      f.CreatedAt,
	}}
}

func FeedbackAckEvent(id domain.FeedbackID) Event {
	return Event{Name: EventFeedbackSubmitted, Data: FeedbackAckPayload{Success: true, FeedbackID: id}}
}

func NewQuestionEvent(q *domain.Question) Event {
	return Event{Name: EventNewQuestion, Data: questionPayload(q, false)}
}

func QuestionActivatedEvent(q *domain.Question) Event {
	return Event{Name: EventQuestionActivated, Data: questionPayload(q, true)}
}

func QuestionEndedEvent(id domain.QuestionID) Event {
	return Event{Name: EventQuestionEnded, Data: QuestionEndedPayload{QuestionID: id}}
}

func NewResponseEvent(r *domain.Response) Event {
	return Event{Name: EventNewResponse, Data: ResponsePayload{
		ID:             r.ID,
		QuestionID:     r.QuestionID,
		SelectedOpt:    r.SelectedOpt,
		TextAnswer:     r.TextAnswer,
		SentimentScore: r.SentimentScore,
		CreatedAt:      r.CreatedAt,
	}}
}

func ErrorEvent(msg string) Event {
	return Event{Name: EventError, Data: ErrorPayload{Message: msg}}
}

func questionPayload(q *domain.Question, withActive bool) QuestionPayload {
	p := QuestionPayload{
		ID:        q.ID,
		SessionID: q.SessionID,
		Type:      q.Type,
		Title:     q.Title,
		Options:   q.Options,
		CreatedAt: q.CreatedAt,
	}
	if withActive {
		active := q.IsActive
		p.IsActive = &active
	}
	return p
}
