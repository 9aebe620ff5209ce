package repository

import (
	"context"

	"loginhub/internal/domain"
)

// SessionRepository defines persistence operations for Session entities.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	// FindByToken returns (nil, nil) when no session matches the token.
	FindByToken(ctx context.Context, token string) (*domain.Session, error)
	// DeleteByToken removes a session. Deleting an absent token is not an error.
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUsername(ctx context.Context, username string) error
}
