// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberforge/ember/pkg/errutil"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ember.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	def := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("log-format", def.LogFormat, "")
	fs.Int("tick-rate", def.TickRate, "")
	fs.String("metrics-addr", def.MetricsAddr, "")
	fs.Int("ticks", 0, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log_format: json
tick_rate: 30
window:
  title: Demo
plugins:
  enabled: ["play*"]
  playground:
    max_ticks: 10
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 30, cfg.TickRate)
	assert.Equal(t, "Demo", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width, "unset keys keep their defaults")
	assert.Equal(t, []string{"play*"}, cfg.Plugins.Enabled)
	assert.Equal(t, 10, cfg.Plugins.Playground.MaxTicks)
}

func TestLoad_ChangedFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, "tick_rate: 30\nlog_format: json\n")
	cfg, err := Load(path, newFlags(t, "--tick-rate", "120", "--ticks", "5"))
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.TickRate)
	assert.Equal(t, "json", cfg.LogFormat, "unchanged flag defaults must not override the file")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"unknown key", "tick_rat: 30\n", "CONFIG_SCHEMA_INVALID"},
		{"schema range", "tick_rate: 0\n", "CONFIG_SCHEMA_INVALID"},
		{"bad enum", "log_format: xml\n", "CONFIG_SCHEMA_INVALID"},
		{"wrong type", "window: 3\n", "CONFIG_SCHEMA_INVALID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), nil)
			errutil.AssertErrorCode(t, err, tt.code)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	errutil.AssertErrorCode(t, err, "CONFIG_READ_FAILED")
}

func TestLoad_FlagOutOfRange(t *testing.T) {
	_, err := Load("", newFlags(t, "--tick-rate", "0"))
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
		{"log level", func(c *Config) { c.LogLevel = "trace" }},
		{"tick rate", func(c *Config) { c.TickRate = 1001 }},
		{"window", func(c *Config) { c.Window.Height = 0 }},
		{"max ticks", func(c *Config) { c.Plugins.Playground.MaxTicks = -1 }},
		{"pattern", func(c *Config) { c.Plugins.Enabled = []string{"[unclosed"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			errutil.AssertErrorCode(t, cfg.Validate(), "CONFIG_INVALID")
		})
	}

	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestEnabled(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Enabled("anything"), "empty pattern list enables all")

	cfg.Plugins.Enabled = []string{"play*", "lua-script"}
	assert.True(t, cfg.Enabled("playground"))
	assert.True(t, cfg.Enabled("lua-script"))
	assert.False(t, cfg.Enabled("lua"))
	assert.False(t, cfg.Enabled("other"))
}
