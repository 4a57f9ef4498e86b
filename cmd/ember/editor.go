// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emberforge/ember/internal/editor"
	"github.com/emberforge/ember/internal/host"
	"github.com/emberforge/ember/internal/xdg"
	"github.com/emberforge/ember/pkg/resource"
)

// editorOptions holds options for the editor command.
type editorOptions struct {
	scene  string
	clicks []string
	play   int
}

// NewEditorCmd creates the editor subcommand.
func NewEditorCmd() *cobra.Command {
	opts := &editorOptions{}

	cmd := &cobra.Command{
		Use:   "editor",
		Short: "Edit a scene headlessly through the editor menus",
		Long: `Create a scene, click the given menu items in order and print the
resulting scene graph. With --play, the enabled plugins are run against
the edited scene for that many ticks before leaving play mode.`,
		Example: `  ember editor --click "Rigid Body" --click Collider
  ember editor --click "Revolute Joint" --play 10`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEditor(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.scene, "scene", "Untitled", "name of the edited scene")
	cmd.Flags().StringArrayVar(&opts.clicks, "click", nil, "menu item to click; repeatable")
	cmd.Flags().IntVar(&opts.play, "play", 0, "ticks to run in play mode (0 = skip play mode)")

	return cmd
}

func runEditor(cmd *cobra.Command, opts *editorOptions) error {
	if opts.play < 0 {
		return fmt.Errorf("play must not be negative, got %d", opts.play)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := setupLogging(cmd, cfg)

	resourcesDir := cfg.ResourcesDir
	if resourcesDir == "" {
		resourcesDir = xdg.ResourcesDir()
	}
	resources, err := resource.NewManager(resourcesDir, resource.WithLogger(logger.With("component", "resources")))
	if err != nil {
		return fmt.Errorf("failed to create resource manager: %w", err)
	}

	h := host.New(host.WithLogger(logger), host.WithTickRate(cfg.TickRate), host.WithResources(resources))
	if _, err := registerBuiltins(h, cfg); err != nil {
		return fmt.Errorf("failed to register plugins: %w", err)
	}

	ed := editor.New(h.Scenes(), h.UI(), opts.scene, editor.WithLogger(logger.With("component", "editor")))
	for _, label := range opts.clicks {
		if err := ed.Click(label); err != nil {
			return fmt.Errorf("failed to click %q: %w", label, err)
		}
	}
	if err := ed.Pump(); err != nil {
		return fmt.Errorf("failed to apply menu commands: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, ed.Scene().Graph.Dump())

	if opts.play == 0 {
		return nil
	}

	if err := ed.EnterPlayMode(h); err != nil {
		return fmt.Errorf("failed to enter play mode: %w", err)
	}
	dt := h.Timestep()
	ran := 0
	for ran < opts.play {
		ran++
		if h.Update(dt).IsExit() {
			break
		}
	}
	fmt.Fprintf(out, "\nPlay mode (%d tick(s)):\n", ran)
	fmt.Fprint(out, ed.Scene().Graph.Dump())

	if err := ed.LeavePlayMode(h); err != nil {
		return fmt.Errorf("failed to leave play mode: %w", err)
	}
	fmt.Fprintln(out, "\nAfter play mode:")
	fmt.Fprint(out, ed.Scene().Graph.Dump())
	return nil
}
