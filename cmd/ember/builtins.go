// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package main

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/emberforge/ember/internal/config"
	"github.com/emberforge/ember/internal/host"
	"github.com/emberforge/ember/pkg/plugin"
	"github.com/emberforge/ember/plugins/luascript"
	"github.com/emberforge/ember/plugins/playground"
)

// builtin describes a plugin compiled into the binary.
type builtin struct {
	name   string
	id     uuid.UUID
	create func(cfg *config.Config) plugin.Plugin
}

// builtins lists the compiled-in plugins in registration order.
var builtins = []builtin{
	{
		name: playground.Name,
		id:   playground.ID,
		create: func(cfg *config.Config) plugin.Plugin {
			return playground.New(cfg.Plugins.Playground.MaxTicks)
		},
	},
	{
		name:   luascript.Name,
		id:     luascript.ID,
		create: func(*config.Config) plugin.Plugin { return luascript.New() },
	},
}

// registerBuiltins registers every built-in plugin that cfg enables and
// returns the names registered.
func registerBuiltins(h *host.Host, cfg *config.Config) ([]string, error) {
	var names []string
	for _, b := range builtins {
		if !cfg.Enabled(b.name) {
			slog.Debug("plugin disabled by configuration", "plugin", b.name)
			continue
		}
		if err := h.Register(b.create(cfg)); err != nil {
			return names, err
		}
		names = append(names, b.name)
	}
	return names, nil
}
