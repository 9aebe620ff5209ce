package service

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loginhub/internal/domain"
)

type fakeSessionRepo struct {
	sessions  map[string]*domain.Session
	createErr error
	findErr   error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *domain.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	session.CreatedAt = time.Now().UTC()
	cp := *session
	f.sessions[session.Token] = &cp
	return nil
}

func (f *fakeSessionRepo) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	session, ok := f.sessions[token]
	if !ok {
		return nil, nil
	}
	cp := *session
	return &cp, nil
}

func (f *fakeSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func (f *fakeSessionRepo) DeleteByUsername(ctx context.Context, username string) error {
	for token, session := range f.sessions {
		if session.Username == username {
			delete(f.sessions, token)
		}
	}
	return nil
}

func registeredUserRepo(t *testing.T, username, email, password string) *fakeUserRepo {
	t.Helper()
	repo := newFakeUserRepo()
	_, err := NewUserService(repo).Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return repo
}

func TestSessionCreate_IssuesRandomToken(t *testing.T) {
	sessions := newFakeSessionRepo()
	users := registeredUserRepo(t, "alice", "a@example.com", "pw")
	svc := NewSessionService(sessions, users, 30*24*time.Hour)
	ctx := context.Background()

	session, err := svc.Create(ctx, "alice")
	require.NoError(t, err)

	assert.Equal(t, "alice", session.Username)
	assert.Len(t, session.Token, 64)
	_, err = hex.DecodeString(session.Token)
	assert.NoError(t, err, "token must be hex encoded")
	assert.WithinDuration(t, time.Now().UTC().Add(30*24*time.Hour), session.ExpiresAt, 5*time.Second)
	require.Contains(t, sessions.sessions, session.Token)

	other, err := svc.Create(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, session.Token, other.Token)
}

func TestSessionCurrent_ResolvesUser(t *testing.T) {
	sessions := newFakeSessionRepo()
	users := registeredUserRepo(t, "alice", "a@example.com", "pw")
	svc := NewSessionService(sessions, users, time.Hour)
	ctx := context.Background()

	session, err := svc.Create(ctx, "alice")
	require.NoError(t, err)

	user, err := svc.Current(ctx, session.Token)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash)
}

func TestSessionCurrent_Anonymous(t *testing.T) {
	sessions := newFakeSessionRepo()
	users := newFakeUserRepo()
	svc := NewSessionService(sessions, users, time.Hour)
	ctx := context.Background()

	user, err := svc.Current(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = svc.Current(ctx, "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestSessionCurrent_ExpiredSessionDeleted(t *testing.T) {
	sessions := newFakeSessionRepo()
	users := registeredUserRepo(t, "alice", "a@example.com", "pw")
	svc := NewSessionService(sessions, users, time.Hour)
	ctx := context.Background()

	sessions.sessions["stale"] = &domain.Session{
		Token:     "stale",
		Username:  "alice",
		CreatedAt: time.Now().UTC().Add(-2 * time.Hour),
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}

	user, err := svc.Current(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, user, "expired session must resolve anonymous")
	assert.NotContains(t, sessions.sessions, "stale", "expired row must be deleted on lookup")
}

func TestSessionCurrent_UserGone(t *testing.T) {
	sessions := newFakeSessionRepo()
	users := newFakeUserRepo()
	svc := NewSessionService(sessions, users, time.Hour)
	ctx := context.Background()

	session, err := svc.Create(ctx, "ghost")
	require.NoError(t, err)

	user, err := svc.Current(ctx, session.Token)
	require.NoError(t, err)
	assert.Nil(t, user, "a session for a deleted user must resolve anonymous")
}

func TestSessionDestroy(t *testing.T) {
	sessions := newFakeSessionRepo()
	users := registeredUserRepo(t, "alice", "a@example.com", "pw")
	svc := NewSessionService(sessions, users, time.Hour)
	ctx := context.Background()

	session, err := svc.Create(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, svc.Destroy(ctx, session.Token))

	user, err := svc.Current(ctx, session.Token)
	require.NoError(t, err)
	assert.Nil(t, user)

	// destroying an absent or empty token is a no-op
	assert.NoError(t, svc.Destroy(ctx, session.Token))
	assert.NoError(t, svc.Destroy(ctx, ""))
}
