// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package luascript runs Lua scripts through the plugin lifecycle.
//
// On init every *.lua file below the scripts directory of the resource root
// is loaded into its own sandboxed state. Scripts may define any of these
// globals:
//
//	on_init()          called once after loading
//	on_update(dt)      called every tick with the elapsed seconds
//	on_event(event)    called for window events; event.kind names the type
//	on_deinit()        called before the state is closed
//
// and call into the engine through the engine table: engine.log(msg [, level]),
// engine.request_exit() and engine.add_scene(name). A script that raises an
// error is logged and disabled until the next init.
package luascript

import (
	"context"
	"strings"

	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"

	"github.com/emberforge/ember/pkg/errutil"
	"github.com/emberforge/ember/pkg/plugin"
	"github.com/emberforge/ember/pkg/pool"
	"github.com/emberforge/ember/pkg/scene"
	"github.com/emberforge/ember/pkg/window"
)

// Name is the plugin name.
const Name = "lua-script"

// DefaultDir is the scripts directory relative to the resource root.
const DefaultDir = "scripts"

var (
	// ID identifies the plugin.
	ID = uuid.MustParse("6c3f1e2d-9b8a-4f7e-a6d5-4c3b2a190817")
	// ScriptTypeID identifies the lua-script script type in the registry.
	ScriptTypeID = uuid.MustParse("6c3f1e2d-9b8a-4f7e-a6d5-4c3b2a190818")
)

// Script is the registry instance of the lua-script type.
type Script struct {
	Path string
}

// Plugin runs Lua scripts.
type Plugin struct {
	plugin.Base

	// Dir is the scripts directory relative to the resource root.
	Dir string

	factory *StateFactory
	scripts []*script
}

var _ plugin.Named = (*Plugin)(nil)

// New creates the plugin with the default scripts directory.
func New() *Plugin {
	return &Plugin{Dir: DefaultDir, factory: NewStateFactory()}
}

// ID returns the plugin id.
func (p *Plugin) ID() uuid.UUID { return ID }

// Name returns the plugin name.
func (p *Plugin) Name() string { return Name }

// NewDefault returns a plugin without loaded scripts.
func (p *Plugin) NewDefault() plugin.Plugin { return New() }

// OnRegister registers the lua-script script type.
func (p *Plugin) OnRegister(ctx plugin.RegistrationContext) {
	if err := ctx.Serialization.RegisterScript(ScriptTypeID, Name, func() any { return &Script{} }); err != nil {
		errutil.LogError(nil, "register script type failed", err, "plugin", Name)
	}
}

// OnInit loads every script and calls its on_init.
func (p *Plugin) OnInit(_ pool.Handle[scene.Scene], ctx *plugin.Context) {
	if p.factory == nil {
		p.factory = NewStateFactory()
	}
	paths, err := ctx.Resources.List(".lua")
	if err != nil {
		errutil.LogError(ctx.Logger, "list scripts failed", err)
		return
	}
	prefix := strings.Trim(p.Dir, "/") + "/"
	for _, path := range paths {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		s, err := p.load(ctx, path)
		if err != nil {
			errutil.LogError(ctx.Logger, "script disabled", err, "script", path)
			continue
		}
		p.scripts = append(p.scripts, s)
		s.call(ctx, "on_init")
	}
	ctx.Logger.Info("scripts loaded", "count", len(p.scripts))
}

func (p *Plugin) load(ctx *plugin.Context, path string) (*script, error) {
	res, err := ctx.Resources.Load(context.Background(), path)
	if err != nil {
		return nil, err
	}
	L, err := p.factory.NewState(context.Background())
	if err != nil {
		return nil, err
	}
	s := &script{path: path, state: L, ctx: ctx}
	defer func() { s.ctx = nil }()
	s.registerEngine()
	if err := L.DoString(string(res.Data)); err != nil {
		for _, h := range s.scenes {
			ctx.Scenes.Remove(h)
		}
		L.Close()
		return nil, scriptError(path, "load", err)
	}
	return s, nil
}

// Update calls on_update(dt) on every enabled script.
func (p *Plugin) Update(ctx *plugin.Context, flow *plugin.ControlFlow) {
	for _, s := range p.scripts {
		s.call(ctx, "on_update", lua.LNumber(ctx.Dt))
		if s.takeExit() {
			flow.RequestExit()
		}
	}
}

// OnOSEvent calls on_event(event) on every enabled script.
func (p *Plugin) OnOSEvent(ev window.Event, ctx *plugin.Context, flow *plugin.ControlFlow) {
	for _, s := range p.scripts {
		if s.disabled {
			continue
		}
		s.call(ctx, "on_event", eventTable(s.state, ev))
		if s.takeExit() {
			flow.RequestExit()
		}
	}
}

// OnDeinit calls on_deinit, removes the scenes scripts added and closes the
// states.
func (p *Plugin) OnDeinit(ctx *plugin.Context) {
	for _, s := range p.scripts {
		s.call(ctx, "on_deinit")
		for _, h := range s.scenes {
			ctx.Scenes.Remove(h)
		}
		s.state.Close()
	}
	p.scripts = nil
}

// Scripts returns the paths of loaded scripts and whether each is enabled.
func (p *Plugin) Scripts() map[string]bool {
	out := make(map[string]bool, len(p.scripts))
	for _, s := range p.scripts {
		out[s.path] = !s.disabled
	}
	return out
}

func eventTable(L *lua.LState, ev window.Event) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "kind", lua.LString(ev.Kind()))
	switch e := ev.(type) {
	case window.KeyboardInput:
		L.SetField(t, "key", lua.LString(e.Key))
		L.SetField(t, "pressed", lua.LBool(e.Pressed))
	case window.Resized:
		L.SetField(t, "width", lua.LNumber(e.Width))
		L.SetField(t, "height", lua.LNumber(e.Height))
	case window.CursorMoved:
		L.SetField(t, "x", lua.LNumber(e.X))
		L.SetField(t, "y", lua.LNumber(e.Y))
	case window.Focused:
		L.SetField(t, "focused", lua.LBool(e.Focused))
	}
	return t
}
