// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package plugin defines the contract between the engine and its plugins.
//
// Plugins are linked into the application statically and registered with
// the host at startup. The host drives every plugin through the same
// lifecycle:
//
//	Unregistered -> Registered -> Active <-> Inactive
//
// OnRegister runs once on the first edge, OnInit on every transition into
// Active, Update and OnOSEvent only while Active, and OnDeinit on every
// transition out of Active. All methods are called from a single goroutine,
// never concurrently.
//
// Example:
//
//	var gameID = uuid.MustParse("b9302812-81a7-48a5-89d2-921774d94943")
//
//	type Game struct {
//		plugin.Base
//		level pool.Handle[scene.Scene]
//	}
//
//	func (g *Game) ID() uuid.UUID             { return gameID }
//	func (g *Game) NewDefault() plugin.Plugin { return &Game{} }
//
//	func (g *Game) OnInit(override pool.Handle[scene.Scene], ctx *plugin.Context) {
//		if !override.IsNone() {
//			g.level = override
//			return
//		}
//		g.level = ctx.Scenes.Add(scene.New("level"))
//	}
//
//	func (g *Game) OnDeinit(ctx *plugin.Context) {
//		ctx.Scenes.Remove(g.level)
//	}
package plugin

import (
	"github.com/google/uuid"

	"github.com/emberforge/ember/pkg/pool"
	"github.com/emberforge/ember/pkg/scene"
	"github.com/emberforge/ember/pkg/window"
)

// Plugin is implemented by every engine extension.
type Plugin interface {
	// OnRegister is called once, right after the plugin is registered and
	// before any Context exists. Register custom node and script types here.
	OnRegister(ctx RegistrationContext)

	// OnInit is called when the plugin becomes active. override is a scene
	// the plugin should operate on instead of creating its own; it is the
	// none handle except when the editor enters play mode.
	OnInit(override pool.Handle[scene.Scene], ctx *Context)

	// OnDeinit is called when the plugin becomes inactive. The plugin must
	// detach everything it added to host collections while active.
	OnDeinit(ctx *Context)

	// Update is called once per fixed tick while the plugin is active.
	Update(ctx *Context, flow *ControlFlow)

	// OnOSEvent is called for every event the main window receives while
	// the plugin is active.
	OnOSEvent(ev window.Event, ctx *Context, flow *ControlFlow)

	// ID returns the persistent type id. The engine stores it next to saved
	// data and uses it to find the plugin again on load, so it must be a
	// constant (parse it once with uuid.MustParse); never return a freshly
	// generated id.
	ID() uuid.UUID

	// NewDefault returns a new instance of the same concrete type in its
	// default state, regardless of the receiver's state. The host uses it to
	// reset plugins.
	NewDefault() Plugin
}

// Base provides no-op lifecycle methods. Embed it and override what you need.
type Base struct{}

// OnRegister implements Plugin.
func (Base) OnRegister(RegistrationContext) {}

// OnInit implements Plugin.
func (Base) OnInit(pool.Handle[scene.Scene], *Context) {}

// OnDeinit implements Plugin.
func (Base) OnDeinit(*Context) {}

// Update implements Plugin.
func (Base) Update(*Context, *ControlFlow) {}

// OnOSEvent implements Plugin.
func (Base) OnOSEvent(window.Event, *Context, *ControlFlow) {}

// Cast returns p as the concrete type T. It succeeds only when the dynamic
// type of p is T and never panics; a nil p yields false. Plugins are pointer
// types, so the result also gives mutable access.
func Cast[T Plugin](p Plugin) (T, bool) {
	t, ok := p.(T)
	return t, ok
}

// Is reports whether the dynamic type of p is T.
func Is[T Plugin](p Plugin) bool {
	_, ok := p.(T)
	return ok
}

// Named is implemented by plugins that provide a human readable name.
type Named interface {
	Name() string
}

// DisplayName returns Name() when implemented, otherwise the id.
func DisplayName(p Plugin) string {
	if n, ok := p.(Named); ok && n.Name() != "" {
		return n.Name()
	}
	return p.ID().String()
}

// Stateful is implemented by plugins whose state survives save and load.
type Stateful interface {
	// SaveState returns a value that is encoded into the save file.
	SaveState() any
	// LoadState restores state; decode fills its argument from the saved
	// value. Malformed data must be handled by the plugin.
	LoadState(decode func(v any) error)
}
