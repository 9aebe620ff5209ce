package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"loginhub/internal/domain"
	"loginhub/internal/repository"
)

// uniqueViolation is the SQLSTATE class postgres reports when an insert
// collides with a primary key or unique constraint.
const uniqueViolation = "23505"

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("insert user: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT username, email, password_hash, created_at, updated_at
		FROM users
		WHERE username = $1
	`
	var user domain.User
	if err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) UpdateEmail(ctx context.Context, username, email string) error {
	query := `
		UPDATE users
		SET email = $1, updated_at = $2
		WHERE username = $3
	`
	res, err := r.db.ExecContext(ctx, query, email, time.Now().UTC(), username)
	if err != nil {
		return fmt.Errorf("update user email: %w", err)
	}
	return oneRow(res)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $1, updated_at = $2
		WHERE username = $3
	`
	res, err := r.db.ExecContext(ctx, query, passwordHash, time.Now().UTC(), username)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	return oneRow(res)
}

func (r *UserRepository) Delete(ctx context.Context, username string) error {
	query := `
		DELETE FROM users
		WHERE username = $1
	`
	res, err := r.db.ExecContext(ctx, query, username)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return oneRow(res)
}

func oneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
