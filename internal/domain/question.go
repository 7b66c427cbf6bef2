package domain

import (
	"strconv"
	"time"
)

type QuestionID string

type QuestionType string

const (
	QuestionText QuestionType = "text"
	QuestionMCQ  QuestionType = "mcq"
)

// MinMCQOptions is the smallest option set that makes a poll a poll.
const MinMCQOptions = 2

// Question is a poll or free-text prompt a presenter pushes to a session.
// Options is empty for text questions.
type Question struct {
	ID        QuestionID   `json:"id"`
	SessionID SessionID    `json:"sessionId"`
	Type      QuestionType `json:"type"`
	Title     string       `json:"title"`
	Options   []string     `json:"options"`
	IsActive  bool         `json:"isActive"`
	CreatedAt time.Time    `json:"createdAt"`
	EndedAt   *time.Time   `json:"endedAt,omitempty"`
}

// HasOption reports whether opt names one of the question's options,
// either by zero-based index ("0", "1", ...) or by exact label.
func (q *Question) HasOption(opt string) bool {
	if idx, err := strconv.Atoi(opt); err == nil {
		return idx >= 0 && idx < len(q.Options)
	}
	for _, label := range q.Options {
		if opt == label {
			return true
		}
	}
	return false
}
