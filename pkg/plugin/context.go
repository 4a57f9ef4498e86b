// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package plugin

import (
	"log/slog"

	"github.com/emberforge/ember/pkg/render"
	"github.com/emberforge/ember/pkg/resource"
	"github.com/emberforge/ember/pkg/scene"
	"github.com/emberforge/ember/pkg/serialization"
	"github.com/emberforge/ember/pkg/ui"
	"github.com/emberforge/ember/pkg/window"
)

// RegistrationContext is the environment of the registration stage.
type RegistrationContext struct {
	// Serialization is the engine's type registry, shared with the host.
	Serialization *serialization.Context
}

// Context is the environment passed to every lifecycle call after
// registration. It and everything it points to are only valid for the
// duration of the call; do not keep references to them.
type Context struct {
	// Scenes is the engine's scene container.
	Scenes *scene.Container

	// Resources loads and caches resources.
	Resources *resource.Manager

	// UI is the user interface root.
	UI *ui.UserInterface

	// Renderer accepts custom render passes.
	Renderer *render.Renderer

	// Dt is the time in seconds since the previous tick during Update and
	// the host's fixed timestep in every other call. It is never negative.
	Dt float32

	// Serialization is the engine's type registry.
	Serialization *serialization.Context

	// Window is the main application window.
	Window *window.Window

	// Logger is scoped to the plugin being called.
	Logger *slog.Logger
}
