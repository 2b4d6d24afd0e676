// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

package auth

import (
	"errors"

	"github.com/samber/oops"
)

// ErrNotFound is returned by repositories when no record matches.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned by repositories when an insert would violate
// the unique email constraint.
var ErrDuplicateEmail = errors.New("duplicate email")

// Client error codes. These are caller mistakes and map to 4xx responses.
const (
	CodeDuplicateEmail     = "AUTH_DUPLICATE_EMAIL"
	CodeUserNotFound       = "AUTH_USER_NOT_FOUND"
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeValidationFailed   = "AUTH_VALIDATION_FAILED"
	CodeMissingIdentifier  = "AUTH_MISSING_IDENTIFIER"
	CodeIdentityMismatch   = "AUTH_IDENTITY_MISMATCH"
)

// Internal error codes. Details never leave the process.
const (
	CodeRegisterFailed      = "AUTH_REGISTER_FAILED"
	CodeLoginFailed         = "AUTH_LOGIN_FAILED"
	CodeUpdateFailed        = "AUTH_UPDATE_FAILED"
	CodeUpdateTargetMissing = "AUTH_UPDATE_TARGET_MISSING"
)

// Kind buckets every error the service returns.
type Kind int

// Error kinds.
const (
	KindNone Kind = iota
	KindClient
	KindInternal
)

// String returns the lowercase kind name used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindClient:
		return "client"
	default:
		return "internal"
	}
}

// Violation is a single failed validation rule.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found in a request body.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		return "validation failed: " + e.Violations[0].Field + ": " + e.Violations[0].Message
	}
	return "validation failed"
}

// KindOf classifies err. Errors without a client code are internal.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	if IsClientError(err) {
		return KindClient
	}
	return KindInternal
}

// IsClientError reports whether err carries one of the client codes.
func IsClientError(err error) bool {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return false
	}
	switch oopsErr.Code() {
	case CodeDuplicateEmail, CodeUserNotFound, CodeInvalidCredentials,
		CodeValidationFailed, CodeMissingIdentifier, CodeIdentityMismatch:
		return true
	default:
		return false
	}
}

// HasCode reports whether err is an oops error carrying code.
func HasCode(err error, code string) bool {
	oopsErr, ok := oops.AsOops(err)
	return ok && oopsErr.Code() == code
}

// ViolationsOf returns the violations of a validation failure, or nil.
func ViolationsOf(err error) []Violation {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Violations
	}
	return nil
}

func errDuplicateEmail(email string) error {
	return oops.Code(CodeDuplicateEmail).
		With("email", email).
		Errorf("email already exists")
}

func errUserNotFound(email string) error {
	return oops.Code(CodeUserNotFound).
		With("email", email).
		Errorf("user not found")
}

func errInvalidCredentials(email string) error {
	return oops.Code(CodeInvalidCredentials).
		With("email", email).
		Errorf("incorrect password")
}

func errValidation(violations []Violation) error {
	return oops.Code(CodeValidationFailed).
		With("violations", len(violations)).
		Wrap(&ValidationError{Violations: violations})
}

func errMissingIdentifier() error {
	return oops.Code(CodeMissingIdentifier).
		Errorf("email not found in the request headers")
}

func errIdentityMismatch(email string) error {
	return oops.Code(CodeIdentityMismatch).
		With("email", email).
		Errorf("token subject does not own this account")
}
