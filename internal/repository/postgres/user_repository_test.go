package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loginhub/internal/domain"
	"loginhub/internal/repository"
)

func newUserRepoWithMock(t *testing.T) (repository.UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepository(db), mock
}

func TestUserCreate_InsertsRow(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	q := `(?s)^\s*INSERT\s+INTO\s+users\s*\(username,\s*email,\s*password_hash,\s*created_at,\s*updated_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*$`
	mock.ExpectExec(q).
		WithArgs("alice", "alice@example.com", "hash", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &domain.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreate_UniqueViolation(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectExec(`INSERT\s+INTO\s+users`).
		WithArgs("alice", "a@example.com", "hash", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	err := repo.Create(context.Background(), &domain.User{
		Username:     "alice",
		Email:        "a@example.com",
		PasswordHash: "hash",
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserGetByUsername(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	now := time.Now().UTC()
	q := `(?s)^\s*SELECT\s+username,\s*email,\s*password_hash,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"username", "email", "password_hash", "created_at", "updated_at"}).
			AddRow("alice", "alice@example.com", "hash", now, now))

	got, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "hash", got.PasswordHash)
}

func TestUserGetByUsername_Missing(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(`SELECT\s+username,`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserUpdateEmail_MapsZeroRows(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	q := `(?s)^\s*UPDATE\s+users\s+SET\s+email\s*=\s*\$1,\s*updated_at\s*=\s*\$2\s+WHERE\s+username\s*=\s*\$3\s*$`
	mock.ExpectExec(q).
		WithArgs("new@example.com", sqlmock.AnyArg(), "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateEmail(context.Background(), "alice", "new@example.com"))

	mock.ExpectExec(q).
		WithArgs("new@example.com", sqlmock.AnyArg(), "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdateEmail(context.Background(), "ghost", "new@example.com"), repository.ErrNotFound)
}

func TestUserUpdatePassword(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	q := `(?s)^\s*UPDATE\s+users\s+SET\s+password_hash\s*=\s*\$1,\s*updated_at\s*=\s*\$2\s+WHERE\s+username\s*=\s*\$3\s*$`
	mock.ExpectExec(q).
		WithArgs("newhash", sqlmock.AnyArg(), "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdatePassword(context.Background(), "alice", "newhash"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDelete(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	q := `(?s)^\s*DELETE\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s*$`
	mock.ExpectExec(q).WithArgs("alice").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "alice"))

	mock.ExpectExec(q).WithArgs("alice").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "alice"), repository.ErrNotFound)
}

func TestUserCreate_DBError(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectExec(`INSERT\s+INTO\s+users`).
		WithArgs("alice", "a@example.com", "hash", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &domain.User{Username: "alice", Email: "a@example.com", PasswordHash: "hash"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrDuplicate)
	assert.Contains(t, err.Error(), "db down")
}
