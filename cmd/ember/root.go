// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/emberforge/ember/internal/config"
	"github.com/emberforge/ember/internal/logging"
	"github.com/emberforge/ember/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the ember CLI.
func NewRootCmd() *cobra.Command {
	def := config.Default()
	cmd := &cobra.Command{
		Use:   "ember",
		Short: "Ember - a plugin-driven game engine runtime",
		Long: `Ember hosts game plugins: it registers them, drives their lifecycle
at a fixed tick rate and ships a headless scene editor.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/ember/ember.yaml)")
	cmd.PersistentFlags().String("log-format", def.LogFormat, "log format (json or text)")
	cmd.PersistentFlags().String("log-level", def.LogLevel, "log level (debug, info, warn, error)")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewPluginsCmd())
	cmd.AddCommand(NewEditorCmd())
	cmd.AddCommand(NewConfigCmd())

	return cmd
}

// resolveConfigPath returns the --config value or, when unset, the XDG
// config file if it exists. An empty result means defaults only.
func resolveConfigPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	path := xdg.ConfigFile()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", oops.In("cli").With("path", path).Wrap(err)
	}
	return path, nil
}

// loadConfig loads the configuration for cmd, applying its flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging installs the default logger for cfg, writing to the
// command's error stream.
func setupLogging(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	logger := logging.Setup(logging.Options{
		Service: "ember",
		Version: version,
		Format:  cfg.LogFormat,
		Level:   cfg.LogLevel,
	}, cmd.ErrOrStderr())
	slog.SetDefault(logger)
	return logger
}
