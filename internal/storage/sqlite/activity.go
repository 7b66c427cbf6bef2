package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mxm-1x/formiqa/internal/core"
	"github.com/mxm-1x/formiqa/internal/domain"
)

type Activity struct {
	db *sql.DB
}

var _ core.ActivityStore = (*Activity)(nil)

func (a *Activity) Log(ctx context.Context, entry *domain.ActivityLog) error {
	meta := entry.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	_, err = a.db.ExecContext(ctx, `
		INSERT INTO activity_log (id, session_id, activity_type, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		entry.ID, string(entry.SessionID), string(entry.Type), string(raw), entry.CreatedAt)
	return mapErr(err)
}

func (a *Activity) ListBySession(ctx context.Context, session domain.SessionID) ([]domain.ActivityLog, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, session_id, activity_type, metadata, created_at
		FROM activity_log WHERE session_id = ? ORDER BY created_at ASC`, string(session))
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []domain.ActivityLog
	for rows.Next() {
		var (
			entry     domain.ActivityLog
			sid, kind string
			raw       string
		)
		if err := rows.Scan(&entry.ID, &sid, &kind, &raw, &entry.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		entry.SessionID = domain.SessionID(sid)
		entry.Type = domain.ActivityType(kind)
		if err := json.Unmarshal([]byte(raw), &entry.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
		out = append(out, entry)
	}
	return out, mapErr(rows.Err())
}
