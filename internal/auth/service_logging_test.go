// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

package auth_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/giftlink/giftlink/internal/auth"
	"github.com/giftlink/giftlink/internal/auth/mocks"
)

func logEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry), "Failed to parse JSON: %s", scanner.Text())
		entries = append(entries, entry)
	}
	return entries
}

func newLoggedService(t *testing.T, buf *bytes.Buffer) (*auth.Service, serviceMocks) {
	t.Helper()
	m := serviceMocks{
		users:     mocks.NewMockUserRepository(t),
		hasher:    mocks.NewMockPasswordHasher(t),
		tokens:    mocks.NewMockTokenIssuer(t),
		validator: mocks.NewMockRequestValidator(t),
	}
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc, err := auth.NewServiceWithLogger(m.users, m.hasher, m.tokens, m.validator, logger)
	require.NoError(t, err)
	return svc, m
}

func TestService_LogsOneEventPerOutcome(t *testing.T) {
	ctx := context.Background()

	t.Run("success is logged at info", func(t *testing.T) {
		var buf bytes.Buffer
		svc, m := newLoggedService(t, &buf)
		m.users.EXPECT().FindByEmail(mock.Anything, "a@x.com").
			Return(&auth.User{ID: "user-1", Email: "a@x.com", PasswordHash: "h"}, nil)
		m.hasher.EXPECT().Verify("pw", "h").Return(true, nil)
		m.tokens.EXPECT().Issue("user-1").Return("tok", nil)

		_, err := svc.Login(ctx, "a@x.com", "pw")
		require.NoError(t, err)

		entries := logEntries(t, &buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "INFO", entries[0]["level"])
		assert.Equal(t, auth.EventLogin, entries[0]["event"])
		assert.Equal(t, "success", entries[0]["outcome"])
	})

	t.Run("client error is logged at warn with code", func(t *testing.T) {
		var buf bytes.Buffer
		svc, m := newLoggedService(t, &buf)
		m.users.EXPECT().FindByEmail(mock.Anything, "a@x.com").Return(nil, auth.ErrNotFound)

		_, err := svc.Login(ctx, "a@x.com", "pw")
		require.Error(t, err)

		entries := logEntries(t, &buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "WARN", entries[0]["level"])
		assert.Equal(t, "rejected", entries[0]["outcome"])
		assert.Equal(t, auth.CodeUserNotFound, entries[0]["code"])
	})

	t.Run("internal error is logged at error with cause", func(t *testing.T) {
		var buf bytes.Buffer
		svc, m := newLoggedService(t, &buf)
		m.validator.EXPECT().ValidateJSON(auth.RequestUpdate, mock.Anything).Return(map[string]any{}, nil)
		m.users.EXPECT().FindByEmail(mock.Anything, "a@x.com").Return(nil, errors.New("connection reset"))

		_, err := svc.Update(ctx, auth.UpdateInput{Email: "a@x.com", Body: []byte(`{}`)})
		require.Error(t, err)

		entries := logEntries(t, &buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "ERROR", entries[0]["level"])
		assert.Equal(t, auth.EventUpdate, entries[0]["event"])
		assert.Equal(t, auth.CodeUpdateFailed, entries[0]["code"])
		assert.Equal(t, auth.CodeUpdateFailed, entries[0]["operation_code"])
		assert.Contains(t, entries[0]["error"], "connection reset")
	})

	t.Run("internal error keeps the operation code beside the cause code", func(t *testing.T) {
		var buf bytes.Buffer
		svc, m := newLoggedService(t, &buf)
		m.validator.EXPECT().Validate(auth.RequestRegister, mock.Anything).Return(nil)
		m.users.EXPECT().FindByEmail(mock.Anything, "a@x.com").
			Return(nil, oops.Code("USER_FIND_FAILED").Errorf("pool closed"))

		_, err := svc.Register(ctx, auth.RegisterRequest{Email: "a@x.com", Password: "secret1"})
		require.Error(t, err)

		entries := logEntries(t, &buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "ERROR", entries[0]["level"])
		assert.Equal(t, "USER_FIND_FAILED", entries[0]["code"])
		assert.Equal(t, auth.CodeRegisterFailed, entries[0]["operation_code"])
	})

	t.Run("passwords never reach the log", func(t *testing.T) {
		var buf bytes.Buffer
		svc, m := newLoggedService(t, &buf)
		m.users.EXPECT().FindByEmail(mock.Anything, "a@x.com").
			Return(&auth.User{ID: "user-1", Email: "a@x.com", PasswordHash: "h"}, nil)
		m.hasher.EXPECT().Verify("hunter2-secret", "h").Return(false, nil)

		_, err := svc.Login(ctx, "a@x.com", "hunter2-secret")
		require.Error(t, err)
		assert.NotContains(t, buf.String(), "hunter2-secret")
	})
}
