package domain

import "time"

type ActivityType string

const (
	ActivityResponse ActivityType = "response"
	ActivityFeedback ActivityType = "feedback"
)

// ActivityLog is an append-only trace of audience activity, consumed by
// the analytics timeline. Metadata is free-form and stored as JSON.
type ActivityLog struct {
	ID        string         `json:"id"`
	SessionID SessionID      `json:"sessionId"`
	Type      ActivityType   `json:"activityType"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"createdAt"`
}
