// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

// Package memory provides an in-process user store for development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/samber/oops"

	"github.com/giftlink/giftlink/internal/auth"
)

// UserRepository implements auth.UserRepository over a map keyed by email.
// Uniqueness is enforced under the lock, so concurrent inserts of the same
// email cannot both succeed.
type UserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]auth.User
}

// NewUserRepository creates an empty UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{byEmail: make(map[string]auth.User)}
}

// FindByEmail returns a copy of the stored user.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, oops.Code("USER_FIND_FAILED").Wrap(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil, oops.Code("USER_NOT_FOUND").With("email", email).Wrap(auth.ErrNotFound)
	}
	return cloneUser(user), nil
}

// Insert stores user, assigning a new ID.
func (r *UserRepository) Insert(ctx context.Context, user *auth.User) error {
	if err := ctx.Err(); err != nil {
		return oops.Code("USER_INSERT_FAILED").Wrap(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return oops.Code("USER_EMAIL_TAKEN").With("email", user.Email).Wrap(auth.ErrDuplicateEmail)
	}
	user.ID = auth.NewUserID()
	r.byEmail[user.Email] = *cloneUser(*user)
	return nil
}

// UpdateByEmail applies patch and returns the stored result.
func (r *UserRepository) UpdateByEmail(ctx context.Context, email string, patch auth.UserPatch) (*auth.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, oops.Code("USER_UPDATE_FAILED").Wrap(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil, oops.Code("USER_NOT_FOUND").With("email", email).Wrap(auth.ErrNotFound)
	}
	patch.Apply(&user)
	r.byEmail[email] = user
	return cloneUser(user), nil
}

// Len returns the number of stored users.
func (r *UserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byEmail)
}

func cloneUser(u auth.User) *auth.User {
	if u.UpdatedAt != nil {
		updated := *u.UpdatedAt
		u.UpdatedAt = &updated
	}
	return &u
}
