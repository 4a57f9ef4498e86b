// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package config loads and validates the engine configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// command-line flags that were explicitly set.
package config

import (
	"os"
	"strings"

	"github.com/gobwas/glob"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config is the engine configuration.
type Config struct {
	LogFormat    string        `koanf:"log_format" json:"log_format,omitempty" jsonschema:"enum=json,enum=text,description=Log output format"`
	LogLevel     string        `koanf:"log_level" json:"log_level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	TickRate     int           `koanf:"tick_rate" json:"tick_rate,omitempty" jsonschema:"minimum=1,maximum=1000,description=Fixed update ticks per second"`
	MetricsAddr  string        `koanf:"metrics_addr" json:"metrics_addr,omitempty" jsonschema:"description=Observability listen address; empty disables it"`
	ResourcesDir string        `koanf:"resources_dir" json:"resources_dir,omitempty"`
	SnapshotPath string        `koanf:"snapshot_path" json:"snapshot_path,omitempty"`
	Window       WindowConfig  `koanf:"window" json:"window,omitempty"`
	Plugins      PluginsConfig `koanf:"plugins" json:"plugins,omitempty"`
}

// WindowConfig describes the initial window.
type WindowConfig struct {
	Title  string `koanf:"title" json:"title,omitempty"`
	Width  int    `koanf:"width" json:"width,omitempty" jsonschema:"minimum=1"`
	Height int    `koanf:"height" json:"height,omitempty" jsonschema:"minimum=1"`
}

// PluginsConfig selects and configures built-in plugins.
type PluginsConfig struct {
	// Enabled holds glob patterns matched against plugin names. Empty
	// enables every plugin.
	Enabled    []string         `koanf:"enabled" json:"enabled,omitempty"`
	Playground PlaygroundConfig `koanf:"playground" json:"playground,omitempty"`
}

// PlaygroundConfig configures the playground plugin.
type PlaygroundConfig struct {
	// MaxTicks makes the playground request exit after that many ticks. Zero
	// means run until stopped.
	MaxTicks int `koanf:"max_ticks" json:"max_ticks,omitempty" jsonschema:"minimum=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogFormat: "text",
		LogLevel:  "info",
		TickRate:  60,
		Window: WindowConfig{
			Title:  "Ember",
			Width:  1280,
			Height: 720,
		},
	}
}

// flagKeys maps CLI flag names onto configuration keys. Flags not listed
// here are command options, not configuration.
var flagKeys = map[string]string{
	"log-format":   "log_format",
	"log-level":    "log_level",
	"tick-rate":    "tick_rate",
	"metrics-addr": "metrics_addr",
	"resources":    "resources_dir",
	"snapshot":     "snapshot_path",
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and flags. A file that does not match the schema is
// rejected before it is applied.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	errb := oops.In("config").With("path", path)
	k := koanf.New(".")

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
		if err != nil {
			return nil, errb.Code("CONFIG_READ_FAILED").Wrapf(err, "read config")
		}
		if err := ValidateSchema(data); err != nil {
			return nil, errb.Code("CONFIG_SCHEMA_INVALID").Hint(FormatSchemaError(err)).Wrap(err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errb.Code("CONFIG_PARSE_FAILED").Wrapf(err, "parse config")
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, errb.Code("CONFIG_FLAGS_FAILED").Wrapf(err, "apply flags")
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errb.Code("CONFIG_PARSE_FAILED").Wrapf(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges that the schema cannot express once flags
// have been applied.
func (c *Config) Validate() error {
	errb := oops.In("config").Code("CONFIG_INVALID")

	switch c.LogFormat {
	case "json", "text":
	default:
		return errb.With("log_format", c.LogFormat).Errorf("log_format must be json or text")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return errb.With("log_level", c.LogLevel).Errorf("log_level must be debug, info, warn or error")
	}
	if c.TickRate < 1 || c.TickRate > 1000 {
		return errb.With("tick_rate", c.TickRate).Errorf("tick_rate must be between 1 and 1000")
	}
	if c.Window.Width < 1 || c.Window.Height < 1 {
		return errb.With("width", c.Window.Width).With("height", c.Window.Height).
			Errorf("window dimensions must be positive")
	}
	if c.Plugins.Playground.MaxTicks < 0 {
		return errb.With("max_ticks", c.Plugins.Playground.MaxTicks).Errorf("max_ticks must not be negative")
	}
	for _, pattern := range c.Plugins.Enabled {
		if _, err := glob.Compile(pattern); err != nil {
			return errb.With("pattern", pattern).Wrapf(err, "invalid plugin pattern")
		}
	}
	return nil
}

// Enabled reports whether the plugin called name is selected by
// plugins.enabled. Invalid patterns never match.
func (c *Config) Enabled(name string) bool {
	if len(c.Plugins.Enabled) == 0 {
		return true
	}
	for _, pattern := range c.Plugins.Enabled {
		g, err := glob.Compile(pattern)
		if err != nil {
			continue
		}
		if g.Match(name) {
			return true
		}
	}
	return false
}
