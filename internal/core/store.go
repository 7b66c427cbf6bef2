package core

import (
	"context"
	"errors"

	"github.com/mxm-1x/formiqa/internal/domain"
)

// ErrNotFound is returned by all stores for missing rows.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned on unique-constraint violations (email, code).
var ErrConflict = errors.New("already exists")

type SessionStore interface {
	Create(ctx context.Context, s *domain.Session) error
	ByID(ctx context.Context, id domain.SessionID) (*domain.Session, error)
	ByCode(ctx context.Context, code string) (*domain.Session, error)
	ListByOwner(ctx context.Context, owner domain.UserID, page, pageSize int) ([]domain.Session, int, error)
	End(ctx context.Context, id domain.SessionID) (*domain.Session, error)
}

type QuestionStore interface {
	Create(ctx context.Context, q *domain.Question) error
	ByID(ctx context.Context, id domain.QuestionID) (*domain.Question, error)
	ListBySession(ctx context.Context, session domain.SessionID) ([]domain.Question, error)
	Activate(ctx context.Context, id domain.QuestionID) (*domain.Question, error)
	End(ctx context.Context, id domain.QuestionID) (*domain.Question, error)
}

type ResponseStore interface {
	Create(ctx context.Context, r *domain.Response) error
	ListByQuestion(ctx context.Context, question domain.QuestionID) ([]domain.Response, error)
}

type FeedbackStore interface {
	Create(ctx context.Context, f *domain.Feedback) error
	ListBySession(ctx context.Context, session domain.SessionID, page, pageSize int) ([]domain.Feedback, int, error)
	CountBySession(ctx context.Context, session domain.SessionID) (int, error)
}

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	ByEmail(ctx context.Context, email string) (*domain.User, error)
	ByID(ctx context.Context, id domain.UserID) (*domain.User, error)
}

type ActivityStore interface {
	Log(ctx context.Context, a *domain.ActivityLog) error
	ListBySession(ctx context.Context, session domain.SessionID) ([]domain.ActivityLog, error)
}
