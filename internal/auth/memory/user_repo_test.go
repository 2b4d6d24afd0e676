// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/giftlink/giftlink/internal/auth"
	"github.com/giftlink/giftlink/internal/auth/memory"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestUserRepository_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()

	user := &auth.User{Email: "a@x.com", FirstName: "A", PasswordHash: "h", CreatedAt: time.Now()}
	require.NoError(t, repo.Insert(ctx, user))
	assert.NotEmpty(t, user.ID)

	found, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "A", found.FirstName)
	assert.Nil(t, found.UpdatedAt)
}

func TestUserRepository_FindByEmail_IsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()
	require.NoError(t, repo.Insert(ctx, &auth.User{Email: "a@x.com"}))

	_, err := repo.FindByEmail(ctx, "A@X.COM")
	assert.True(t, errors.Is(err, auth.ErrNotFound))
}

func TestUserRepository_Insert_Duplicate(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()

	first := &auth.User{Email: "a@x.com", FirstName: "First"}
	require.NoError(t, repo.Insert(ctx, first))

	err := repo.Insert(ctx, &auth.User{Email: "a@x.com", FirstName: "Second"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, auth.ErrDuplicateEmail))

	found, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	assert.Equal(t, "First", found.FirstName)
}

func TestUserRepository_Insert_ConcurrentSameEmail(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Insert(ctx, &auth.User{Email: "race@x.com"}); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, repo.Len())
}

func TestUserRepository_UpdateByEmail(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()
	user := &auth.User{Email: "a@x.com", FirstName: "A", LastName: "B"}
	require.NoError(t, repo.Insert(ctx, user))

	t.Run("merges only present fields", func(t *testing.T) {
		first := "Alice"
		at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		updated, err := repo.UpdateByEmail(ctx, "a@x.com", auth.UserPatch{FirstName: &first, UpdatedAt: at})
		require.NoError(t, err)

		assert.Equal(t, user.ID, updated.ID)
		assert.Equal(t, "Alice", updated.FirstName)
		assert.Equal(t, "B", updated.LastName)
		require.NotNil(t, updated.UpdatedAt)
		assert.Equal(t, at, *updated.UpdatedAt)
	})

	t.Run("returned record is a copy", func(t *testing.T) {
		updated, err := repo.UpdateByEmail(ctx, "a@x.com", auth.UserPatch{UpdatedAt: time.Now()})
		require.NoError(t, err)
		updated.FirstName = "mutated"

		found, err := repo.FindByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "Alice", found.FirstName)
	})

	t.Run("stale timestamp does not move updated_at back", func(t *testing.T) {
		latest := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		_, err := repo.UpdateByEmail(ctx, "a@x.com", auth.UserPatch{UpdatedAt: latest})
		require.NoError(t, err)

		stale := latest.Add(-time.Minute)
		last := "C"
		updated, err := repo.UpdateByEmail(ctx, "a@x.com", auth.UserPatch{LastName: &last, UpdatedAt: stale})
		require.NoError(t, err)
		assert.Equal(t, "C", updated.LastName)
		assert.Equal(t, latest, *updated.UpdatedAt)
	})

	t.Run("missing email returns not found", func(t *testing.T) {
		_, err := repo.UpdateByEmail(ctx, "nobody@x.com", auth.UserPatch{UpdatedAt: time.Now()})
		assert.True(t, errors.Is(err, auth.ErrNotFound))
	})
}

func TestUserRepository_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := memory.NewUserRepository()

	_, err := repo.FindByEmail(ctx, "a@x.com")
	require.Error(t, err)
	assert.False(t, errors.Is(err, auth.ErrNotFound))
	assert.True(t, errors.Is(err, context.Canceled))
}
