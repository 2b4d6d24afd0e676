// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftlink/giftlink/pkg/errutil"
)

type flakyPinger struct {
	failures int
	calls    int
}

func (p *flakyPinger) Ping(_ context.Context) error {
	p.calls++
	if p.calls <= p.failures {
		return errors.New("connection refused")
	}
	return nil
}

func fastRetry(attempts uint64) RetryConfig {
	return RetryConfig{Attempts: attempts, Base: time.Millisecond, Max: 2 * time.Millisecond}
}

func TestWaitReady_RecoversAfterFailures(t *testing.T) {
	p := &flakyPinger{failures: 2}
	require.NoError(t, waitReady(context.Background(), p, fastRetry(5)))
	assert.Equal(t, 3, p.calls)
}

func TestWaitReady_GivesUp(t *testing.T) {
	p := &flakyPinger{failures: 100}
	err := waitReady(context.Background(), p, fastRetry(2))
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "DB_CONNECT_FAILED")
	errutil.AssertErrorContext(t, err, "attempts", 3)
	assert.Equal(t, 3, p.calls)
}

func TestWaitReady_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := waitReady(ctx, &flakyPinger{failures: 100}, fastRetry(50))
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "DB_CONNECT_FAILED")
}

func TestOpen_InvalidURL(t *testing.T) {
	_, err := Open(context.Background(), "postgres://%zz", fastRetry(0))
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "DB_CONFIG_INVALID")
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	assert.Positive(t, cfg.Attempts)
	assert.Less(t, cfg.Base, cfg.Max)
}
