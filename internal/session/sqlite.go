package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteStore persists the session in the single-row sessions table.
//
// The table is created by the shared migrations.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Load(ctx context.Context) (Session, bool, error) {
	var (
		token string
		user  string
	)
	err := s.db.QueryRowContext(ctx, "SELECT token, user FROM sessions WHERE id = 1").Scan(&token, &user)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("failed to query session: %w", err)
	}
	return Session{Token: token, User: []byte(user)}, true, nil
}

func (s *SQLiteStore) Save(ctx context.Context, sess Session) error {
	query := `
		INSERT INTO sessions (id, token, user, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET token = excluded.token, user = excluded.user, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, sess.Token, string(sess.User), time.Now()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
