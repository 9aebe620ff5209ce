package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"loginhub/internal/domain"
	"loginhub/internal/repository"
)

// SessionService manages the opaque tokens that tie cookies to users. It only
// deals in tokens and rows; reading and writing the cookie itself belongs to
// the HTTP layer.
type SessionService interface {
	Create(ctx context.Context, username string) (*domain.Session, error)
	Current(ctx context.Context, token string) (*domain.User, error)
	Destroy(ctx context.Context, token string) error
}

type sessionService struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
	ttl      time.Duration
}

func NewSessionService(sessions repository.SessionRepository, users repository.UserRepository, ttl time.Duration) SessionService {
	return &sessionService{
		sessions: sessions,
		users:    users,
		ttl:      ttl,
	}
}

func (s *sessionService) Create(ctx context.Context, username string) (*domain.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		Token:     token,
		Username:  username,
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Current resolves a cookie token to its user. An empty, unknown, or expired
// token means the caller is anonymous and yields (nil, nil); expired rows are
// deleted on sight since nothing else sweeps them.
func (s *sessionService) Current(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	if session.Expired(time.Now().UTC()) {
		if err := s.sessions.DeleteByToken(ctx, token); err != nil {
			return nil, err
		}
		return nil, nil
	}

	user, err := s.users.GetByUsername(ctx, session.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *sessionService) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeleteByToken(ctx, token)
}

// generateToken returns 32 random bytes hex-encoded, 64 characters.
func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
