package sqlite

import (
	"context"
	"database/sql"

	"github.com/mxm-1x/formiqa/internal/core"
	"github.com/mxm-1x/formiqa/internal/domain"
)

type Users struct {
	db *sql.DB
}

var _ core.UserStore = (*Users)(nil)

func (u *Users) Create(ctx context.Context, user *domain.User) error {
	_, err := u.db.ExecContext(ctx, `
		INSERT INTO user (id, email, name, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		string(user.ID), user.Email, user.Name, user.PasswordHash, user.CreatedAt)
	return mapErr(err)
}

func (u *Users) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(u.db.QueryRowContext(ctx, userCols+` WHERE email = ?`, email))
}

func (u *Users) ByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return scanUser(u.db.QueryRowContext(ctx, userCols+` WHERE id = ?`, string(id)))
}

const userCols = `SELECT id, email, name, password_hash, created_at FROM user`

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user domain.User
		id   string
	)
	if err := row.Scan(&id, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	user.ID = domain.UserID(id)
	return &user, nil
}
