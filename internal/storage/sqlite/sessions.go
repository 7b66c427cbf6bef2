package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/mxm-1x/formiqa/internal/core"
	"github.com/mxm-1x/formiqa/internal/domain"
)

type Sessions struct {
	db *sql.DB
}

var _ core.SessionStore = (*Sessions)(nil)

func (s *Sessions) Create(ctx context.Context, sess *domain.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (id, user_id, title, code, visibility, is_active, created_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(sess.ID), string(sess.OwnerID), sess.Title, sess.Code,
		string(sess.Visibility), sess.IsActive, sess.CreatedAt, sess.EndedAt)
	return mapErr(err)
}

func (s *Sessions) ByID(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	return scanSession(s.db.QueryRowContext(ctx, sessionCols+` WHERE id = ?`, string(id)))
}

func (s *Sessions) ByCode(ctx context.Context, code string) (*domain.Session, error) {
	return scanSession(s.db.QueryRowContext(ctx, sessionCols+` WHERE code = ?`, code))
}

func (s *Sessions) ListByOwner(ctx context.Context, owner domain.UserID, page, pageSize int) ([]domain.Session, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	rows, err := s.db.QueryContext(ctx,
		sessionCols+` WHERE user_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		string(owner), pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	var out []domain.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapErr(err)
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM session WHERE user_id = ?`, string(owner)).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}
	return out, total, nil
}

func (s *Sessions) End(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE session SET is_active = 0, ended_at = ? WHERE id = ?`, now, string(id))
	if err != nil {
		return nil, mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, core.ErrNotFound
	}
	return s.ByID(ctx, id)
}

const sessionCols = `SELECT id, user_id, title, code, visibility, is_active, created_at, ended_at FROM session`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var (
		sess       domain.Session
		id, owner  string
		visibility string
		endedAt    sql.NullTime
	)
	err := row.Scan(&id, &owner, &sess.Title, &sess.Code, &visibility, &sess.IsActive, &sess.CreatedAt, &endedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	sess.ID = domain.SessionID(id)
	sess.OwnerID = domain.UserID(owner)
	sess.Visibility = domain.SessionVisibility(visibility)
	if endedAt.Valid {
		t := endedAt.Time
		sess.EndedAt = &t
	}
	return &sess, nil
}
