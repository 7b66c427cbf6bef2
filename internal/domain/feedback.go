package domain

import "time"

type FeedbackID string

// Feedback is an audience reaction: an emoji tap, a free-text note, or both.
// SentimentScore is nil when there was no text to score.
type Feedback struct {
	ID             FeedbackID `json:"id"`
	SessionID      SessionID  `json:"sessionId"`
	Type           string     `json:"type"`
	Emoji          *string    `json:"emoji"`
	Message        *string    `json:"message"`
	SentimentScore *int       `json:"sentimentScore"`
	CreatedAt      time.Time  `json:"createdAt"`
}
