// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emberforge/ember/internal/config"
)

// NewConfigCmd creates the config subcommand and its children.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate configuration",
	}

	cmd.AddCommand(newConfigSchemaCmd())
	cmd.AddCommand(newConfigValidateCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, string(data))
			return nil
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [FILE]",
		Short: "Validate a configuration file",
		Long: `Validate a configuration file against the schema and value ranges.
Without FILE, the --config file or the XDG config file is validated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				resolved, err := resolveConfigPath()
				if err != nil {
					return err
				}
				path = resolved
			}
			if path == "" {
				return fmt.Errorf("no configuration file to validate")
			}
			if _, err := config.Load(path, nil); err != nil {
				return fmt.Errorf("invalid configuration %s: %w", path, err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: valid\n", path)
			return nil
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode configuration: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, string(data))
			return nil
		},
	}
}
