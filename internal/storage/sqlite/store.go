// Package sqlite implements the core store interfaces on SQLite via the
// pure-Go modernc.org driver.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mxm-1x/formiqa/internal/core"
)

// Store owns the database handle and hands out per-entity stores.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and bootstraps the schema.
// ":memory:" is supported for tests; it pins the pool to one connection so
// every query sees the same in-memory database.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		// Serialize writers instead of failing fast on a locked database.
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Sessions() *Sessions   { return &Sessions{db: s.db} }
func (s *Store) Questions() *Questions { return &Questions{db: s.db} }
func (s *Store) Responses() *Responses { return &Responses{db: s.db} }
func (s *Store) Feedback() *Feedback   { return &Feedback{db: s.db} }
func (s *Store) Users() *Users         { return &Users{db: s.db} }
func (s *Store) Activity() *Activity   { return &Activity{db: s.db} }

// mapErr converts driver errors to the sentinel errors callers match on.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return core.ErrNotFound
	}
	if strings.Contains(err.Error(), "UNIQUE constraint") {
		return core.ErrConflict
	}
	return err
}
