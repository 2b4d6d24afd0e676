// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

package main

import (
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/giftlink/giftlink/internal/store"
)

// migrator is the part of *store.Migrator the subcommands drive.
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(version int) error
	Status() (*store.Status, error)
	Close() error
}

// migratorFactory is replaced in tests.
var migratorFactory = func(databaseURL string) (migrator, error) {
	return store.NewMigrator(databaseURL)
}

// NewMigrateCmd creates the migrate subcommand tree.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
		Long: `Apply, roll back and inspect the embedded PostgreSQL migrations.
The database URL comes from --database-url, DATABASE_URL or the config file.`,
	}
	cmd.PersistentFlags().String("database-url", "", "PostgreSQL URL (overrides DATABASE_URL)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(cmd *cobra.Command, m migrator, _ []string) error {
				if err := m.Up(); err != nil {
					return err //nolint:wrapcheck // coded by store
				}
				return printVersion(cmd, m)
			}),
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations (all of them when steps is omitted)",
			Args:  cobra.MaximumNArgs(1),
			RunE: withMigrator(func(cmd *cobra.Command, m migrator, args []string) error {
				if len(args) == 0 {
					if err := m.Down(); err != nil {
						return err //nolint:wrapcheck // coded by store
					}
					return printVersion(cmd, m)
				}
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return oops.Code("INVALID_ARGUMENT").With("steps", args[0]).Errorf("steps must be a positive integer")
				}
				if err := m.Steps(-n); err != nil {
					return err //nolint:wrapcheck // coded by store
				}
				return printVersion(cmd, m)
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "List applied and pending migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(cmd *cobra.Command, m migrator, _ []string) error {
				st, err := m.Status()
				if err != nil {
					return err //nolint:wrapcheck // coded by store
				}
				cmd.Printf("Current version: %d", st.Current)
				if st.Dirty {
					cmd.Print(" (dirty)")
				}
				cmd.Println()
				for _, v := range st.Applied {
					cmd.Printf("  [applied] %s\n", migrationLabel(v))
				}
				for _, v := range st.Pending {
					cmd.Printf("  [pending] %s\n", migrationLabel(v))
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE:  withMigrator(func(cmd *cobra.Command, m migrator, _ []string) error { return printVersion(cmd, m) }),
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Mark a version as applied without running it, clearing a dirty state",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(cmd *cobra.Command, m migrator, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return oops.Code("INVALID_ARGUMENT").With("version", args[0]).Errorf("version must be an integer")
				}
				if err := m.Force(v); err != nil {
					return err //nolint:wrapcheck // coded by store
				}
				return printVersion(cmd, m)
			}),
		},
	)
	return cmd
}

func withMigrator(run func(cmd *cobra.Command, m migrator, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, true)
		if err != nil {
			return err
		}
		if cfg.Store.Postgres.URL == "" {
			return oops.Code("CONFIG_INVALID").
				With("field", "store.postgres.url").
				Errorf("database URL is required (set DATABASE_URL or --database-url)")
		}

		m, err := migratorFactory(cfg.Store.Postgres.URL)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := m.Close(); closeErr != nil {
				cmd.PrintErrf("warning: closing migrator: %v\n", closeErr)
			}
		}()
		return run(cmd, m, args)
	}
}

func printVersion(cmd *cobra.Command, m migrator) error {
	v, dirty, err := m.Version()
	if err != nil {
		return err //nolint:wrapcheck // coded by store
	}
	if dirty {
		cmd.Printf("Schema version: %d (dirty)\n", v)
		return nil
	}
	cmd.Printf("Schema version: %d\n", v)
	return nil
}

func migrationLabel(v uint) string {
	name, err := store.MigrationName(v)
	if err != nil || name == "" {
		return strconv.FormatUint(uint64(v), 10)
	}
	return name
}
