// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

package main

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/giftlink/giftlink/internal/auth"
)

// NewSchemaCmd creates the schema subcommand.
func NewSchemaCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print or write the request validation schemas",
		Long: `Generate the JSON Schemas the server validates request bodies with.
The files can be edited and passed back through validation.register_schema and
validation.update_schema.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchema(cmd, outDir)
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "directory to write <kind>.schema.json files into (default: stdout)")
	return cmd
}

func runSchema(cmd *cobra.Command, outDir string) error {
	for _, kind := range auth.RequestKinds() {
		schema, err := auth.GenerateSchema(kind)
		if err != nil {
			return oops.Code("SCHEMA_GENERATE_FAILED").With("kind", kind).Wrap(err)
		}

		if outDir == "" {
			cmd.Println(string(schema))
			continue
		}

		if err := os.MkdirAll(outDir, 0o750); err != nil {
			return oops.Code("SCHEMA_WRITE_FAILED").With("dir", outDir).Wrap(err)
		}
		path := filepath.Join(outDir, string(kind)+".schema.json")
		if err := os.WriteFile(path, schema, 0o600); err != nil {
			return oops.Code("SCHEMA_WRITE_FAILED").With("path", path).Wrap(err)
		}
		cmd.Printf("Generated %s\n", path)
	}
	return nil
}
