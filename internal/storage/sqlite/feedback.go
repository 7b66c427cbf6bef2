package sqlite

import (
	"context"
	"database/sql"

	"github.com/mxm-1x/formiqa/internal/core"
	"github.com/mxm-1x/formiqa/internal/domain"
)

type Feedback struct {
	db *sql.DB
}

var _ core.FeedbackStore = (*Feedback)(nil)

func (f *Feedback) Create(ctx context.Context, fb *domain.Feedback) error {
	_, err := f.db.ExecContext(ctx, `
		INSERT INTO feedback (id, session_id, type, emoji, message, sentiment_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(fb.ID), string(fb.SessionID), fb.Type, fb.Emoji, fb.Message,
		fb.SentimentScore, fb.CreatedAt)
	return mapErr(err)
}

func (f *Feedback) ListBySession(ctx context.Context, session domain.SessionID, page, pageSize int) ([]domain.Feedback, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 50
	}
	rows, err := f.db.QueryContext(ctx, `
		SELECT id, session_id, type, emoji, message, sentiment_score, created_at
		FROM feedback WHERE session_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		string(session), pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	var out []domain.Feedback
	for rows.Next() {
		var (
			fb      domain.Feedback
			id, sid string
			emoji   sql.NullString
			message sql.NullString
			score   sql.NullInt64
		)
		if err := rows.Scan(&id, &sid, &fb.Type, &emoji, &message, &score, &fb.CreatedAt); err != nil {
			return nil, 0, mapErr(err)
		}
		fb.ID = domain.FeedbackID(id)
		fb.SessionID = domain.SessionID(sid)
		if emoji.Valid {
			v := emoji.String
			fb.Emoji = &v
		}
		if message.Valid {
			v := message.String
			fb.Message = &v
		}
		if score.Valid {
			v := int(score.Int64)
			fb.SentimentScore = &v
		}
		out = append(out, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapErr(err)
	}

	total, err := f.CountBySession(ctx, session)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (f *Feedback) CountBySession(ctx context.Context, session domain.SessionID) (int, error) {
	var n int
	err := f.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM feedback WHERE session_id = ?`, string(session)).Scan(&n)
	return n, mapErr(err)
}
