// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/giftlink/giftlink/internal/auth"
	"github.com/giftlink/giftlink/internal/auth/mocks"
	"github.com/giftlink/giftlink/pkg/errutil"
)

type serviceMocks struct {
	users     *mocks.MockUserRepository
	hasher    *mocks.MockPasswordHasher
	tokens    *mocks.MockTokenIssuer
	validator *mocks.MockRequestValidator
}

func newMockedService(t *testing.T) (*auth.Service, serviceMocks) {
	t.Helper()
	m := serviceMocks{
		users:     mocks.NewMockUserRepository(t),
		hasher:    mocks.NewMockPasswordHasher(t),
		tokens:    mocks.NewMockTokenIssuer(t),
		validator: mocks.NewMockRequestValidator(t),
	}
	svc, err := auth.NewService(m.users, m.hasher, m.tokens, m.validator)
	require.NoError(t, err)
	return svc, m
}

func TestNewService_NilDependencies(t *testing.T) {
	users := mocks.NewMockUserRepository(t)
	hasher := mocks.NewMockPasswordHasher(t)
	tokens := mocks.NewMockTokenIssuer(t)
	validator := mocks.NewMockRequestValidator(t)

	tests := []struct {
		name        string
		users       auth.UserRepository
		hasher      auth.PasswordHasher
		tokens      auth.TokenIssuer
		validator   auth.RequestValidator
		expectError string
	}{
		{name: "nil users", hasher: hasher, tokens: tokens, validator: validator, expectError: "user repository is required"},
		{name: "nil hasher", users: users, tokens: tokens, validator: validator, expectError: "password hasher is required"},
		{name: "nil tokens", users: users, hasher: hasher, validator: validator, expectError: "token issuer is required"},
		{name: "nil validator", users: users, hasher: hasher, tokens: tokens, expectError: "request validator is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := auth.NewService(tt.users, tt.hasher, tt.tokens, tt.validator)
			require.Error(t, err)
			assert.Nil(t, svc)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestNewServiceWithLogger_NilLogger(t *testing.T) {
	svc, err := auth.NewServiceWithLogger(
		mocks.NewMockUserRepository(t),
		mocks.NewMockPasswordHasher(t),
		mocks.NewMockTokenIssuer(t),
		mocks.NewMockRequestValidator(t),
		nil,
	)
	require.Error(t, err)
	assert.Nil(t, svc)
	assert.Contains(t, err.Error(), "logger")
}

func validRegister() auth.RegisterRequest {
	return auth.RegisterRequest{Email: "a@x.com", Password: "secret1", FirstName: "A", LastName: "B"}
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success inserts hashed user and returns token", func(t *testing.T) {
		svc, m := newMockedService(t)
		m.validator.EXPECT().Validate(auth.RequestRegister, mock.Anything).Return(nil)
		m.users.EXPECT().FindByEmail(mock.Anything, "a@x.com").Return(nil, auth.ErrNotFound)
		m.hasher.EXPECT().Hash("secret1").Return("hashed", nil)
		m.users.EXPECT().Insert(mock.Anything, mock.MatchedBy(func(u *auth.User) bool {
			return u.Email == "a@x.com" && u.PasswordHash == "hashed" &&
				u.FirstName == "A" && u.LastName == "B" &&
				!u.CreatedAt.IsZero() && u.UpdatedAt == nil
		})).Run(func(_ context.Context, u *auth.User) { u.ID = "user-1" }).Return(nil)
		m.tokens.EXPECT().Issue("user-1").Return("tok", nil)

		res, err := svc.Register(ctx, validRegister())
		require.NoError(t, err)
		assert.Equal(t, &auth.RegisterResult{Token: "tok", Email: "a@x.com"}, res)
	})

	t.Run("existing email is a duplicate and nothing is inserted", func(t *testing.T) {
		svc, m := newMockedService(t)
		m.validator.EXPECT().Validate(auth.RequestRegister, mock.Anything).Return(nil)
		m.users.EXPECT().FindByEmail(mock.Anything, "a@x.com").Return(&auth.User{ID: "user-1", Email: "a@x.com"}, nil)

		res, err := svc.Register(ctx, validRegister())
		require.Error(t, err)
		assert.Nil(t, res)
		errutil.AssertErrorCode(t, err, auth.CodeDuplicateEmail)
		assert.Equal(t, auth.KindClient, auth.KindOf(err))
	})

	t.Run("store unique constraint maps to duplicate", func(t *testing.T) {
		svc, m := newMockedService(t)
		m.validator.EXPECT().Validate(auth.RequestRegister, mock.Anything).Return(nil)
		m.users.EXPECT().FindByEmail(mock.Anything, "a@x.com").Return(nil, auth.ErrNotFound)
		m.hasher.EXPECT().Hash("secret1").Return("hashed", nil)
		m.users.EXPECT().Insert(mock.Anything, mock.Anything).Return(auth.ErrDuplicateEmail)

		_, err := svc.Register(ctx, validRegister())
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, auth.CodeDuplicateEmail)
	})

	t.Run("validation failure short-circuits", func(t *testing.T) {
		svc, m := newMockedService(t)
		violations := []auth.Violation{{Field: "email", Message: "is required"}}
		m.validator.EXPECT().Validate(auth.RequestRegister, mock.Anything).Return(violations)

		_, err := svc.Register(ctx, auth.RegisterRequest{})
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, auth.CodeValidationFailed)
		assert.Equal(t, violations, auth.ViolationsOf(err))
	})

	internalCases := []struct {
		name  string
		setup func(m serviceMocks)
	}{
		{
			name: "lookup failure",
			setup: func(m serviceMocks) {
				m.users.EXPECT().FindByEmail(mock.Anything, "a@x.com").Return(nil, errors.New("connection refused"))
			},
		},
		{
			name: "hash failure",
			setup: func(m serviceMocks) {
				m.users.EXPECT().FindByEmail(mock.Anything, "a@x.com").Return(nil, auth.ErrNotFound)
				m.hasher.EXPECT().Hash("secret1").Return("", errors.New("entropy exhausted"))
			},
		},
		{
			name: "insert failure",
			setup: func(m serviceMocks) {
				m.users.EXPECT().FindByEmail(mock.Anything, "a@x.com").Return(nil, auth.ErrNotFound)
				m.hasher.EXPECT().Hash("secret1").Return("hashed", nil)
				m.users.EXPECT().Insert(mock.Anything, mock.Anything).Return(errors.New("disk full"))
			},
		},
		{
			name: "signing failure",
			setup: func(m serviceMocks) {
				m.users.EXPECT().FindByEmail(mock.Anything, "a@x.com").Return(nil, auth.ErrNotFound)
				m.hasher.EXPECT().Hash("secret1").Return("hashed", nil)
				m.users.EXPECT().Insert(mock.Anything, mock.Anything).
					Run(func(_ context.Context, u *auth.User) { u.ID = "user-1" }).Return(nil)
				m.tokens.EXPECT().Issue("user-1").Return("", errors.New("bad key"))
			},
		},
	}
	for _, tc := range internalCases {
		t.Run(tc.name+" is internal", func(t *testing.T) {
			svc, m := newMockedService(t)
			m.validator.EXPECT().Validate(auth.RequestRegister, mock.Anything).Return(nil)
			tc.setup(m)

			_, err := svc.Register(ctx, validRegister())
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, auth.CodeRegisterFailed)
			assert.Equal(t, auth.KindInternal, auth.KindOf(err))
		})
	}
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	stored := &auth.User{ID: "user-1", Email: "a@x.com", FirstName: "A", PasswordHash: "hashed"}

	t.Run("success", func(t *testing.T) {
		svc, m := newMockedService(t)
		m.users.EXPECT().FindByEmail(mock.Anything, "a@x.com").Return(stored, nil)
		m.hasher.EXPECT().Verify("secret1", "hashed").Return(true, nil)
		m.tokens.EXPECT().Issue("user-1").Return("tok", nil)

		res, err := svc.Login(ctx, "a@x.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, &auth.LoginResult{Token: "tok", DisplayName: "A", Email: "a@x.com"}, res)
	})

	t.Run("unknown email is user not found", func(t *testing.T) {
		svc, m := newMockedService(t)
		m.users.EXPECT().FindByEmail(mock.Anything, "nobody@x.com").Return(nil, auth.ErrNotFound)

		_, err := svc.Login(ctx, "nobody@x.com", "secret1")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, auth.CodeUserNotFound)
	})

	t.Run("wrong password is invalid credentials", func(t *testing.T) {
		svc, m := newMockedService(t)
		m.users.EXPECT().FindByEmail(mock.Anything, "a@x.com").Return(stored, nil)
		m.hasher.EXPECT().Verify("wrong", "hashed").Return(false, nil)

		_, err := svc.Login(ctx, "a@x.com", "wrong")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, auth.CodeInvalidCredentials)
		assert.False(t, auth.HasCode(err, auth.CodeUserNotFound))
	})

	t.Run("malformed stored hash is internal", func(t *testing.T) {
		svc, m := newMockedService(t)
		m.users.EXPECT().FindByEmail(mock.Anything, "a@x.com").Return(stored, nil)
		m.hasher.EXPECT().Verify("secret1", "hashed").Return(false, errors.New("invalid hash format"))

		_, err := svc.Login(ctx, "a@x.com", "secret1")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, auth.CodeLoginFailed)
		assert.Equal(t, auth.KindInternal, auth.KindOf(err))
	})

	t.Run("store failure is internal", func(t *testing.T) {
		svc, m := newMockedService(t)
		m.users.EXPECT().FindByEmail(mock.Anything, "a@x.com").Return(nil, errors.New("timeout"))

		_, err := svc.Login(ctx, "a@x.com", "secret1")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, auth.CodeLoginFailed)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	body := []byte(`{"firstName":"Alice"}`)
	stored := func() *auth.User {
		return &auth.User{ID: "user-1", Email: "a@x.com", FirstName: "A", LastName: "B"}
	}

	t.Run("success merges present fields and returns token", func(t *testing.T) {
		svc, m := newMockedService(t)
		now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
		svc.SetClock(func() time.Time { return now })

		m.validator.EXPECT().ValidateJSON(auth.RequestUpdate, body).Return(map[string]any{}, nil)
		m.users.EXPECT().FindByEmail(mock.Anything, "a@x.com").Return(stored(), nil)
		m.users.EXPECT().UpdateByEmail(mock.Anything, "a@x.com", mock.MatchedBy(func(p auth.UserPatch) bool {
			return p.FirstName != nil && *p.FirstName == "Alice" && p.LastName == nil && p.UpdatedAt.Equal(now)
		})).Return(&auth.User{ID: "user-1", Email: "a@x.com", FirstName: "Alice"}, nil)
		m.tokens.EXPECT().Issue("user-1").Return("tok", nil)

		res, err := svc.Update(ctx, auth.UpdateInput{Email: "a@x.com", Body: body})
		require.NoError(t, err)
		assert.Equal(t, &auth.UpdateResult{Token: "tok"}, res)
	})

	t.Run("validation failure never touches the store", func(t *testing.T) {
		svc, m := newMockedService(t)
		violations := []auth.Violation{
			{Field: "firstName", Message: "too short"},
			{Field: "lastName", Message: "wrong type"},
		}
		m.validator.EXPECT().ValidateJSON(auth.RequestUpdate, mock.Anything).Return(nil, violations)

		_, err := svc.Update(ctx, auth.UpdateInput{Email: "a@x.com", Body: []byte(`{}`)})
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, auth.CodeValidationFailed)
		assert.Equal(t, violations, auth.ViolationsOf(err))
		m.users.AssertNotCalled(t, "UpdateByEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("validation runs before the identifier check", func(t *testing.T) {
		svc, m := newMockedService(t)
		m.validator.EXPECT().ValidateJSON(auth.RequestUpdate, mock.Anything).
			Return(nil, []auth.Violation{{Field: "x", Message: "is not allowed"}})

		_, err := svc.Update(ctx, auth.UpdateInput{Body: []byte(`{"x":1}`)})
		errutil.AssertErrorCode(t, err, auth.CodeValidationFailed)
	})

	t.Run("missing email is missing identifier", func(t *testing.T) {
		svc, m := newMockedService(t)
		m.validator.EXPECT().ValidateJSON(auth.RequestUpdate, body).Return(map[string]any{}, nil)

		_, err := svc.Update(ctx, auth.UpdateInput{Email: "  ", Body: body})
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, auth.CodeMissingIdentifier)
		assert.Equal(t, auth.KindClient, auth.KindOf(err))
	})

	t.Run("absent record is a named internal error", func(t *testing.T) {
		svc, m := newMockedService(t)
		m.validator.EXPECT().ValidateJSON(auth.RequestUpdate, body).Return(map[string]any{}, nil)
		m.users.EXPECT().FindByEmail(mock.Anything, "gone@x.com").Return(nil, auth.ErrNotFound)

		_, err := svc.Update(ctx, auth.UpdateInput{Email: "gone@x.com", Body: body})
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, auth.CodeUpdateTargetMissing)
		assert.Equal(t, auth.KindInternal, auth.KindOf(err))
	})

	t.Run("record deleted between lookup and update", func(t *testing.T) {
		svc, m := newMockedService(t)
		m.validator.EXPECT().ValidateJSON(auth.RequestUpdate, body).Return(map[string]any{}, nil)
		m.users.EXPECT().FindByEmail(mock.Anything, "a@x.com").Return(stored(), nil)
		m.users.EXPECT().UpdateByEmail(mock.Anything, "a@x.com", mock.Anything).Return(nil, auth.ErrNotFound)

		_, err := svc.Update(ctx, auth.UpdateInput{Email: "a@x.com", Body: body})
		errutil.AssertErrorCode(t, err, auth.CodeUpdateTargetMissing)
	})

	t.Run("caller id must own the record", func(t *testing.T) {
		svc, m := newMockedService(t)
		m.validator.EXPECT().ValidateJSON(auth.RequestUpdate, body).Return(map[string]any{}, nil)
		m.users.EXPECT().FindByEmail(mock.Anything, "a@x.com").Return(stored(), nil)

		_, err := svc.Update(ctx, auth.UpdateInput{Email: "a@x.com", CallerID: "user-2", Body: body})
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, auth.CodeIdentityMismatch)
		assert.Equal(t, auth.KindClient, auth.KindOf(err))
	})

	t.Run("updatedAt never moves backwards", func(t *testing.T) {
		svc, m := newMockedService(t)
		later := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		svc.SetClock(func() time.Time { return later.Add(-time.Hour) })

		record := stored()
		record.UpdatedAt = &later
		m.validator.EXPECT().ValidateJSON(auth.RequestUpdate, body).Return(map[string]any{}, nil)
		m.users.EXPECT().FindByEmail(mock.Anything, "a@x.com").Return(record, nil)
		m.users.EXPECT().UpdateByEmail(mock.Anything, "a@x.com", mock.MatchedBy(func(p auth.UserPatch) bool {
			return p.UpdatedAt.Equal(later)
		})).Return(record, nil)
		m.tokens.EXPECT().Issue("user-1").Return("tok", nil)

		_, err := svc.Update(ctx, auth.UpdateInput{Email: "a@x.com", Body: body})
		require.NoError(t, err)
	})

	t.Run("store failure is internal", func(t *testing.T) {
		svc, m := newMockedService(t)
		m.validator.EXPECT().ValidateJSON(auth.RequestUpdate, body).Return(map[string]any{}, nil)
		m.users.EXPECT().FindByEmail(mock.Anything, "a@x.com").Return(stored(), nil)
		m.users.EXPECT().UpdateByEmail(mock.Anything, "a@x.com", mock.Anything).Return(nil, errors.New("write conflict"))

		_, err := svc.Update(ctx, auth.UpdateInput{Email: "a@x.com", Body: body})
		errutil.AssertErrorCode(t, err, auth.CodeUpdateFailed)
	})
}
