// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

// Package postgres implements auth.UserRepository on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/giftlink/giftlink/internal/auth"
)

// poolIface is the subset of *pgxpool.Pool the repository needs, so tests can
// substitute pgxmock.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository implements auth.UserRepository using PostgreSQL.
type UserRepository struct {
	pool poolIface
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool poolIface) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, first_name, last_name, password_hash, created_at, updated_at`

// FindByEmail retrieves a user by exact email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("email", email).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_FIND_FAILED").
			With("operation", "find user by email").
			With("email", email).
			Wrap(err)
	}
	return user, nil
}

// Insert stores a new user. The unique index on email turns a concurrent
// duplicate into auth.ErrDuplicateEmail.
func (r *UserRepository) Insert(ctx context.Context, user *auth.User) error {
	id := auth.NewUserID()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		id,
		user.Email,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("USER_EMAIL_TAKEN").
				With("email", user.Email).
				With("constraint", pgErr.ConstraintName).
				Wrap(auth.ErrDuplicateEmail)
		}
		return oops.Code("USER_INSERT_FAILED").
			With("operation", "insert user").
			With("email", user.Email).
			Wrap(err)
	}

	user.ID = id
	return nil
}

// UpdateByEmail applies patch in a single statement and returns the updated row.
func (r *UserRepository) UpdateByEmail(ctx context.Context, email string, patch auth.UserPatch) (*auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET first_name = COALESCE($2, first_name),
		    last_name  = COALESCE($3, last_name),
		    updated_at = GREATEST(COALESCE(updated_at, $4), $4)
		WHERE email = $1
		RETURNING `+userColumns,
		email,
		patch.FirstName,
		patch.LastName,
		patch.UpdatedAt,
	)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("email", email).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_UPDATE_FAILED").
			With("operation", "update user by email").
			With("email", email).
			Wrap(err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*auth.User, error) {
	var (
		user      auth.User
		updatedAt *time.Time
	)
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.CreatedAt,
		&updatedAt,
	); err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with operation context
	}
	user.UpdatedAt = updatedAt
	return &user, nil
}
