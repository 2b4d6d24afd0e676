// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

package errutil

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireOops(t *testing.T, err error) oops.OopsError {
	t.Helper()
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.Truef(t, ok, "want an oops error, got %T: %v", err, err)
	return oopsErr
}

// AssertErrorCode checks the code that wins when err is logged or mapped to a
// response, which is the innermost one.
func AssertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	assert.Equalf(t, code, requireOops(t, err).Code(), "error: %v", err)
}

// AssertErrorContext checks one key of the context merged across every oops
// layer of err.
func AssertErrorContext(t *testing.T, err error, key string, value any) {
	t.Helper()
	got, ok := requireOops(t, err).Context()[key]
	if assert.Truef(t, ok, "context has no %q key", key) {
		assert.EqualValues(t, value, got)
	}
}
