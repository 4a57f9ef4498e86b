// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package xdg provides XDG Base Directory paths for Ember.
package xdg

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

const appName = "ember"

func baseDir(env string, fallback ...string) string {
	if base := os.Getenv(env); base != "" {
		return base
	}
	return filepath.Join(append([]string{os.Getenv("HOME")}, fallback...)...)
}

// ConfigDir returns the XDG config directory for ember.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func ConfigDir() string {
	return filepath.Join(baseDir("XDG_CONFIG_HOME", ".config"), appName)
}

// DataDir returns the XDG data directory for ember.
// Checks XDG_DATA_HOME first, falls back to ~/.local/share.
func DataDir() string {
	return filepath.Join(baseDir("XDG_DATA_HOME", ".local", "share"), appName)
}

// StateDir returns the XDG state directory for ember.
// Checks XDG_STATE_HOME first, falls back to ~/.local/state.
func StateDir() string {
	return filepath.Join(baseDir("XDG_STATE_HOME", ".local", "state"), appName)
}

// ConfigFile is the default engine configuration file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "ember.yaml")
}

// ResourcesDir is the default resource root. Scripts live under its
// scripts/ subdirectory.
func ResourcesDir() string {
	return filepath.Join(DataDir(), "resources")
}

// SnapshotFile is the default location of the plugin state snapshot.
func SnapshotFile() string {
	return filepath.Join(StateDir(), "snapshot.yaml")
}

// EnsureDir creates a directory and all parent directories if they don't exist.
// Directories are created with 0700 permissions.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return oops.In("xdg").With("path", path).Wrapf(err, "create directory")
	}
	return nil
}
