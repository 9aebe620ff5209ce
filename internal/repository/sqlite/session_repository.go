package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"loginhub/internal/domain"
	"loginhub/internal/repository"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	session.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
INSERT INTO sessions (token, username, created_at, expires_at)
VALUES (?, ?, ?, ?)`,
		session.Token,
		session.Username,
		session.CreatedAt,
		session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT token, username, created_at, expires_at
FROM sessions
WHERE token = ?`,
		token,
	)

	var session domain.Session
	if err := row.Scan(
		&session.Token,
		&session.Username,
		&session.CreatedAt,
		&session.ExpiresAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `
DELETE FROM sessions
WHERE token = ?`,
		token,
	); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteByUsername(ctx context.Context, username string) error {
	if _, err := r.db.ExecContext(ctx, `
DELETE FROM sessions
WHERE username = ?`,
		username,
	); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}
