// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/giftlink/giftlink/pkg/errutil"
)

const tracerName = "github.com/giftlink/giftlink/internal/auth"

// Log event names, one per operation.
const (
	EventRegister = "auth.register"
	EventLogin    = "auth.login"
	EventUpdate   = "auth.update"
)

// RequestValidator checks request bodies before any state change.
type RequestValidator interface {
	// Validate checks an already decoded JSON document.
	Validate(kind RequestKind, doc any) []Violation

	// ValidateJSON decodes and checks a raw body.
	ValidateJSON(kind RequestKind, body []byte) (any, []Violation)
}

// RegisterResult is returned by a successful Register.
type RegisterResult struct {
	Token string
	Email string
}

// LoginResult is returned by a successful Login.
type LoginResult struct {
	Token       string
	DisplayName string
	Email       string
}

// UpdateInput identifies the account to update and carries the raw body.
type UpdateInput struct {
	// Email names the target account. It arrives outside the body.
	Email string
	// CallerID is the user id from the caller's bearer token, if any.
	// When set it must match the target account.
	CallerID string
	Body     []byte
}

// UpdateResult is returned by a successful Update.
type UpdateResult struct {
	Token string
}

// Service implements account registration, login and profile update.
type Service struct {
	users     UserRepository
	hasher    PasswordHasher
	tokens    TokenIssuer
	validator RequestValidator
	logger    *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewService creates a Service that logs to slog.Default().
func NewService(users UserRepository, hasher PasswordHasher, tokens TokenIssuer, validator RequestValidator) (*Service, error) {
	return NewServiceWithLogger(users, hasher, tokens, validator, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(users UserRepository, hasher PasswordHasher, tokens TokenIssuer, validator RequestValidator, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("token issuer is required")
	}
	if validator == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("request validator is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("logger is required")
	}
	return &Service{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		validator: validator,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
	}, nil
}

// Register creates an account and returns a token for it.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (res *RegisterResult, err error) {
	ctx, span := s.tracer.Start(ctx, EventRegister)
	defer func() { s.finish(ctx, span, EventRegister, err, "email", req.Email) }()

	doc, err := toDocument(req)
	if err != nil {
		return nil, oops.Code(CodeRegisterFailed).With("operation", "encode request").Wrap(err)
	}
	violations := s.validator.Validate(RequestRegister, doc)
	if len(req.Password) > MaxPasswordBytes {
		violations = append(violations, Violation{
			Field:   "password",
			Message: fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes),
		})
	}
	if len(violations) > 0 {
		return nil, errValidation(violations)
	}

	_, err = s.users.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, errDuplicateEmail(req.Email)
	case !errors.Is(err, ErrNotFound):
		return nil, oops.Code(CodeRegisterFailed).
			With("operation", "find user by email").
			Wrap(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, oops.Code(CodeRegisterFailed).
			With("operation", "hash password").
			Wrap(err)
	}

	user := &User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err = s.users.Insert(ctx, user); err != nil {
		// Two registrations can both pass the lookup; the store's unique
		// constraint decides the winner.
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, errDuplicateEmail(req.Email)
		}
		return nil, oops.Code(CodeRegisterFailed).
			With("operation", "insert user").
			Wrap(err)
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, oops.Code(CodeRegisterFailed).
			With("operation", "issue token").
			With("user_id", user.ID).
			Wrap(err)
	}

	return &RegisterResult{Token: token, Email: user.Email}, nil
}

// Login checks credentials and returns a token. It never mutates the store.
func (s *Service) Login(ctx context.Context, email, password string) (res *LoginResult, err error) {
	ctx, span := s.tracer.Start(ctx, EventLogin)
	defer func() { s.finish(ctx, span, EventLogin, err, "email", email) }()

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errUserNotFound(email)
		}
		return nil, oops.Code(CodeLoginFailed).
			With("operation", "find user by email").
			Wrap(err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, oops.Code(CodeLoginFailed).
			With("operation", "verify password").
			With("user_id", user.ID).
			Wrap(err)
	}
	if !ok {
		return nil, errInvalidCredentials(email)
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, oops.Code(CodeLoginFailed).
			With("operation", "issue token").
			With("user_id", user.ID).
			Wrap(err)
	}

	return &LoginResult{Token: token, DisplayName: user.DisplayName(), Email: user.Email}, nil
}

// Update changes the profile fields present in the body of the account named
// by in.Email and returns a fresh token.
func (s *Service) Update(ctx context.Context, in UpdateInput) (res *UpdateResult, err error) {
	ctx, span := s.tracer.Start(ctx, EventUpdate)
	defer func() { s.finish(ctx, span, EventUpdate, err, "email", in.Email) }()

	if _, violations := s.validator.ValidateJSON(RequestUpdate, in.Body); len(violations) > 0 {
		return nil, errValidation(violations)
	}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, errMissingIdentifier()
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errUpdateTargetMissing(email)
		}
		return nil, oops.Code(CodeUpdateFailed).
			With("operation", "find user by email").
			Wrap(err)
	}

	if in.CallerID != "" && in.CallerID != user.ID {
		return nil, errIdentityMismatch(email)
	}

	var req UpdateRequest
	if len(strings.TrimSpace(string(in.Body))) > 0 {
		if err = json.Unmarshal(in.Body, &req); err != nil {
			return nil, oops.Code(CodeUpdateFailed).
				With("operation", "decode validated body").
				Wrap(err)
		}
	}

	updatedAt := s.now().UTC()
	if user.UpdatedAt != nil && updatedAt.Before(*user.UpdatedAt) {
		updatedAt = *user.UpdatedAt
	}

	updated, err := s.users.UpdateByEmail(ctx, email, UserPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		UpdatedAt: updatedAt,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errUpdateTargetMissing(email)
		}
		return nil, oops.Code(CodeUpdateFailed).
			With("operation", "update user").
			With("user_id", user.ID).
			Wrap(err)
	}
	span.SetAttributes(attribute.String("user.id", updated.ID))

	token, err := s.tokens.Issue(updated.ID)
	if err != nil {
		return nil, oops.Code(CodeUpdateFailed).
			With("operation", "issue token").
			With("user_id", updated.ID).
			Wrap(err)
	}

	return &UpdateResult{Token: token}, nil
}

// failureCodes names the code each operation wraps internal failures in.
// oops reports the innermost code, so this one is logged separately.
var failureCodes = map[string]string{
	EventRegister: CodeRegisterFailed,
	EventLogin:    CodeLoginFailed,
	EventUpdate:   CodeUpdateFailed,
}

// finish ends the span and emits the single log event for an operation.
// For internal errors "code" is the innermost cause and "operation_code" the
// operation's own failure code.
func (s *Service) finish(ctx context.Context, span trace.Span, event string, err error, attrs ...any) {
	defer span.End()

	logger := s.logger.With(append([]any{"event", event}, attrs...)...)
	switch KindOf(err) {
	case KindNone:
		logger.InfoContext(ctx, event+" succeeded", "outcome", "success")
	case KindClient:
		span.SetAttributes(attribute.String("auth.outcome", "rejected"))
		logger.WarnContext(ctx, event+" rejected", "outcome", "rejected", "code", errutil.Code(err), "error", err.Error())
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "internal error")
		span.SetAttributes(attribute.String("auth.operation_code", failureCodes[event]))
		errutil.LogErrorContext(ctx, logger.With("outcome", "error", "operation_code", failureCodes[event]), event+" failed", err)
	}
}

func errUpdateTargetMissing(email string) error {
	return oops.Code(CodeUpdateTargetMissing).
		With("email", email).
		Errorf("account vanished before it could be updated")
}

func toDocument(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with operation context
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with operation context
	}
	return doc, nil
}
