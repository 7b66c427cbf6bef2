// Package domain contains entities without logic, just meta-data
package domain

import (
	"crypto/rand"
	"time"
)

type SessionID string

const SessionCodeLen = 8

// codeAlphabet omits 0/O and 1/I so codes survive being read aloud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type SessionVisibility string

const (
	VisibilityPublic  SessionVisibility = "public"
	VisibilityPrivate SessionVisibility = "private"
)

// Session is a presenter-owned live session that viewers join by Code.
type Session struct {
	ID         SessionID         `json:"id"`
	OwnerID    UserID            `json:"userId"`
	Title      string            `json:"title"`
	Code       string            `json:"code"`
	Visibility SessionVisibility `json:"visibility"`
	IsActive   bool              `json:"isActive"`
	CreatedAt  time.Time         `json:"createdAt"`
	EndedAt    *time.Time        `json:"endedAt,omitempty"`
}

// NewSessionCode returns a fresh short join code. Uniqueness is the
// caller's problem; the store enforces it and callers retry on collision.
func NewSessionCode() string {
	b := make([]byte, SessionCodeLen)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b)
}
