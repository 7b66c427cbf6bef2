package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mxm-1x/formiqa/internal/core"
	"github.com/mxm-1x/formiqa/internal/domain"
)

type Questions struct {
	db *sql.DB
}

var _ core.QuestionStore = (*Questions)(nil)

func (q *Questions) Create(ctx context.Context, question *domain.Question) error {
	opts, err := json.Marshal(question.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}
	_, err = q.db.ExecContext(ctx, `
		INSERT INTO question (id, session_id, type, title, options, is_active, created_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(question.ID), string(question.SessionID), string(question.Type),
		question.Title, string(opts), question.IsActive, question.CreatedAt, question.EndedAt)
	return mapErr(err)
}

func (q *Questions) ByID(ctx context.Context, id domain.QuestionID) (*domain.Question, error) {
	return scanQuestion(q.db.QueryRowContext(ctx, questionCols+` WHERE id = ?`, string(id)))
}

func (q *Questions) ListBySession(ctx context.Context, session domain.SessionID) ([]domain.Question, error) {
	rows, err := q.db.QueryContext(ctx,
		questionCols+` WHERE session_id = ? ORDER BY created_at DESC`, string(session))
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *question)
	}
	return out, mapErr(rows.Err())
}

func (q *Questions) Activate(ctx context.Context, id domain.QuestionID) (*domain.Question, error) {
	res, err := q.db.ExecContext(ctx, `UPDATE question SET is_active = 1 WHERE id = ?`, string(id))
	if err != nil {
		return nil, mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, core.ErrNotFound
	}
	return q.ByID(ctx, id)
}

func (q *Questions) End(ctx context.Context, id domain.QuestionID) (*domain.Question, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		`UPDATE question SET is_active = 0, ended_at = ? WHERE id = ?`, now, string(id))
	if err != nil {
		return nil, mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, core.ErrNotFound
	}
	return q.ByID(ctx, id)
}

const questionCols = `SELECT id, session_id, type, title, options, is_active, created_at, ended_at FROM question`

func scanQuestion(row rowScanner) (*domain.Question, error) {
	var (
		question    domain.Question
		id, session string
		qtype, opts string
		endedAt     sql.NullTime
	)
	err := row.Scan(&id, &session, &qtype, &question.Title, &opts, &question.IsActive, &question.CreatedAt, &endedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	question.ID = domain.QuestionID(id)
	question.SessionID = domain.SessionID(session)
	question.Type = domain.QuestionType(qtype)
	if err := json.Unmarshal([]byte(opts), &question.Options); err != nil {
		return nil, fmt.Errorf("unmarshal options: %w", err)
	}
	if endedAt.Valid {
		t := endedAt.Time
		question.EndedAt = &t
	}
	return &question, nil
}
