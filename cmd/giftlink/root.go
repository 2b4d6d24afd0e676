// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/giftlink/giftlink/internal/config"
)

// Global flags available to all subcommands.
var (
	configFile string
	envFile    string
)

// NewRootCmd creates the root command for the GiftLink CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "giftlink",
		Short: "GiftLink account service",
		Long: `GiftLink serves account registration, login and profile updates
for the GiftLink frontend, backed by PostgreSQL, MongoDB or memory.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file path")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSchemaCmd())

	return cmd
}

// loadConfig merges every config source, with cmd's flags applied last.
func loadConfig(cmd *cobra.Command, skipValidation bool) (*config.Config, error) {
	//nolint:wrapcheck // config errors are already coded
	return config.Load(config.Options{
		File:           configFile,
		DotEnv:         envFile,
		Flags:          cmd.Flags(),
		SkipValidation: skipValidation,
	})
}
