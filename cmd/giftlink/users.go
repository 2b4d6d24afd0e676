// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

package main

import (
	"context"
	"log/slog"

	"github.com/samber/oops"

	"github.com/giftlink/giftlink/internal/auth"
	"github.com/giftlink/giftlink/internal/auth/memory"
	authmongo "github.com/giftlink/giftlink/internal/auth/mongo"
	authpg "github.com/giftlink/giftlink/internal/auth/postgres"
	"github.com/giftlink/giftlink/internal/config"
	"github.com/giftlink/giftlink/internal/observability"
	"github.com/giftlink/giftlink/internal/store"
)

// userStore is an opened repository with its readiness probe and cleanup.
type userStore struct {
	users auth.UserRepository
	ready observability.ReadinessChecker
	close func()
}

// openUserStore connects the configured backend.
func openUserStore(ctx context.Context, cfg *config.Config) (*userStore, error) {
	switch cfg.Store.Kind {
	case config.StorePostgres:
		return openPostgres(ctx, cfg.Store.Postgres)
	case config.StoreMongo:
		return openMongo(ctx, cfg.Store.Mongo)
	case config.StoreMemory:
		slog.WarnContext(ctx, "using in-memory user store; accounts are lost on restart")
		return &userStore{users: memory.NewUserRepository(), close: func() {}}, nil
	}
	return nil, oops.Code("CONFIG_INVALID").With("field", "store.kind").Errorf("unknown store kind %q", cfg.Store.Kind)
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig) (*userStore, error) {
	if cfg.AutoMigrate {
		if err := migrateUp(cfg.URL); err != nil {
			return nil, err
		}
	}

	pool, err := store.Open(ctx, cfg.URL, cfg.Retry)
	if err != nil {
		return nil, err //nolint:wrapcheck // coded by store
	}
	slog.InfoContext(ctx, "connected to postgres")

	return &userStore{
		users: authpg.NewUserRepository(pool),
		ready: pool.Ping,
		close: pool.Close,
	}, nil
}

func migrateUp(databaseURL string) error {
	m, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err //nolint:wrapcheck // coded by store
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil {
			slog.Warn("failed to close migrator", "error", closeErr)
		}
	}()

	if err := m.Up(); err != nil {
		return err //nolint:wrapcheck // coded by store
	}
	v, _, err := m.Version()
	if err != nil {
		return err //nolint:wrapcheck // coded by store
	}
	slog.Info("schema migrated", "version", v)
	return nil
}

func openMongo(ctx context.Context, cfg config.MongoConfig) (*userStore, error) {
	client, err := authmongo.Connect(ctx, cfg.URL)
	if err != nil {
		return nil, err //nolint:wrapcheck // coded by mongo package
	}
	db := client.Database(cfg.Database)
	if err := authmongo.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx)) //nolint:errcheck // index error takes precedence
		return nil, err //nolint:wrapcheck // coded by mongo package
	}
	slog.InfoContext(ctx, "connected to mongo", "database", cfg.Database)

	return &userStore{
		users: authmongo.NewUserRepository(db),
		ready: func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close: func() {
			if err := client.Disconnect(context.Background()); err != nil {
				slog.Warn("failed to disconnect from mongo", "error", err)
			}
		},
	}, nil
}
