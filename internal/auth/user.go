// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

package auth

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// User is a stored account.
type User struct {
	// ID is assigned by the repository on insert and never changes.
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
	// UpdatedAt is nil until the first profile update.
	UpdatedAt *time.Time
}

// DisplayName returns the name shown to the user after login.
func (u *User) DisplayName() string {
	return u.FirstName
}

// UserPatch lists the profile fields an update may change.
// Nil fields are left untouched.
type UserPatch struct {
	FirstName *string
	LastName  *string
	UpdatedAt time.Time
}

// Apply merges the patch into u. UpdatedAt never moves backwards.
func (p UserPatch) Apply(u *User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	updated := p.UpdatedAt
	if u.UpdatedAt != nil && u.UpdatedAt.After(updated) {
		updated = *u.UpdatedAt
	}
	u.UpdatedAt = &updated
}

// NewUserID returns a fresh sortable identifier for stores that do not
// generate their own.
func NewUserID() string {
	return ulid.Make().String()
}

// UserRepository persists users.
type UserRepository interface {
	// FindByEmail returns the user with the exact email.
	// Returns ErrNotFound when no user matches.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Insert stores a new user and sets user.ID.
	// Returns ErrDuplicateEmail when the email is already taken.
	Insert(ctx context.Context, user *User) error

	// UpdateByEmail applies patch to the user with the given email and
	// returns the post-update record.
	// Returns ErrNotFound when no user matches.
	UpdateByEmail(ctx context.Context, email string, patch UserPatch) (*User, error)
}
