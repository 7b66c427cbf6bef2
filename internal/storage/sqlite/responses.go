package sqlite

import (
	"context"
	"database/sql"

	"github.com/mxm-1x/formiqa/internal/core"
	"github.com/mxm-1x/formiqa/internal/domain"
)

type Responses struct {
	db *sql.DB
}

var _ core.ResponseStore = (*Responses)(nil)

func (r *Responses) Create(ctx context.Context, resp *domain.Response) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO response (id, question_id, selected_opt, text_answer, sentiment_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(resp.ID), string(resp.QuestionID), resp.SelectedOpt, resp.TextAnswer,
		resp.SentimentScore, resp.CreatedAt)
	return mapErr(err)
}

func (r *Responses) ListByQuestion(ctx context.Context, question domain.QuestionID) ([]domain.Response, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, question_id, selected_opt, text_answer, sentiment_score, created_at
		FROM response WHERE question_id = ? ORDER BY created_at DESC`, string(question))
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []domain.Response
	for rows.Next() {
		var (
			resp     domain.Response
			id, qid  string
			selected sql.NullString
			text     sql.NullString
			score    sql.NullInt64
		)
		if err := rows.Scan(&id, &qid, &selected, &text, &score, &resp.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		resp.ID = domain.ResponseID(id)
		resp.QuestionID = domain.QuestionID(qid)
		if selected.Valid {
			v := selected.String
			resp.SelectedOpt = &v
		}
		if text.Valid {
			v := text.String
			resp.TextAnswer = &v
		}
		if score.Valid {
			v := int(score.Int64)
			resp.SentimentScore = &v
		}
		out = append(out, resp)
	}
	return out, mapErr(rows.Err())
}
