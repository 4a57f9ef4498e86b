// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/emberforge/ember/internal/host"
	"github.com/emberforge/ember/internal/logging"
)

// NewPluginsCmd creates the plugins subcommand.
func NewPluginsCmd() *cobra.Command {
	var showTypes bool

	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List the built-in plugins",
		Long: `List the built-in plugins and whether the configuration enables them.
With --types, the enabled plugins are registered and the node and script
types they contribute are listed as well.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "NAME\tID\tENABLED")
			for _, b := range builtins {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%t\n", b.name, b.id, cfg.Enabled(b.name))
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("failed to write plugin list: %w", err)
			}

			if !showTypes {
				return nil
			}
			h := host.New(host.WithLogger(logging.Discard()))
			if _, err := registerBuiltins(h, cfg); err != nil {
				return fmt.Errorf("failed to register plugins: %w", err)
			}
			reg := h.Serialization()
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Node types:")
			for _, t := range reg.NodeTypes() {
				fmt.Fprintf(out, "  %s (%s)\n", t.Name, t.ID)
			}
			fmt.Fprintln(out, "Script types:")
			for _, t := range reg.ScriptTypes() {
				fmt.Fprintf(out, "  %s (%s)\n", t.Name, t.ID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showTypes, "types", false, "also list registered node and script types")
	return cmd
}
