// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

// Package store opens the PostgreSQL pool and owns the schema migrations.
package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// RetryConfig bounds the startup connection attempts.
type RetryConfig struct {
	Attempts uint64        `koanf:"attempts"`
	Base     time.Duration `koanf:"base"`
	Max      time.Duration `koanf:"max"`
}

// DefaultRetryConfig waits up to roughly half a minute for the database.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{Attempts: 8, Base: 250 * time.Millisecond, Max: 5 * time.Second}
}

func (c RetryConfig) backoff() retry.Backoff {
	if c.Base <= 0 {
		c.Base = DefaultRetryConfig().Base
	}
	b := retry.NewExponential(c.Base)
	if c.Max > 0 {
		b = retry.WithCappedDuration(c.Max, b)
	}
	return retry.WithMaxRetries(c.Attempts, b)
}

// pinger is satisfied by *pgxpool.Pool.
type pinger interface {
	Ping(ctx context.Context) error
}

// Open creates a pool for databaseURL and pings it until it answers or the
// retry budget runs out.
func Open(ctx context.Context, databaseURL string, cfg RetryConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, oops.Code("DB_CONFIG_INVALID").With("operation", "parse database url").Wrap(err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "create pool").Wrap(err)
	}

	if err := waitReady(ctx, pool, cfg); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func waitReady(ctx context.Context, db pinger, cfg RetryConfig) error {
	attempt := 0
	err := retry.Do(ctx, cfg.backoff(), func(ctx context.Context) error {
		attempt++
		if err := db.Ping(ctx); err != nil {
			slog.DebugContext(ctx, "database not ready", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").
			With("operation", "ping database").
			With("attempts", attempt).
			Wrap(err)
	}
	return nil
}
