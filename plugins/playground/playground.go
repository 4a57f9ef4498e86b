// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package playground is a small sample game plugin. It builds a physics
// scene, spins a custom node every tick and draws a debug overlay pass.
package playground

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/emberforge/ember/pkg/errutil"
	"github.com/emberforge/ember/pkg/plugin"
	"github.com/emberforge/ember/pkg/pool"
	"github.com/emberforge/ember/pkg/scene"
	"github.com/emberforge/ember/pkg/window"
)

// Name is the plugin name.
const Name = "playground"

// BannerPath is an optional text resource logged on init.
const BannerPath = "playground/banner.txt"

var (
	// ID identifies the plugin.
	ID = uuid.MustParse("b4f2a9c1-57d3-4e8b-9a06-1d2c3b4a5f60")
	// SpinnerTypeID identifies the spinner node type.
	SpinnerTypeID = uuid.MustParse("b4f2a9c1-57d3-4e8b-9a06-1d2c3b4a5f61")
)

// Plugin is the playground game.
type Plugin struct {
	plugin.Base

	// MaxTicks requests exit after that many ticks of one session when
	// positive. It is construction config and is not saved.
	MaxTicks int

	// Ticks counts every tick across sessions and is saved.
	Ticks  int
	Angle  float64
	Paused bool

	session   int
	scene     pool.Handle[scene.Scene]
	ownsScene bool
	nodes     []pool.Handle[scene.Node]
	spinner   pool.Handle[scene.Node]
	overlay   *overlay
}

var (
	_ plugin.Named    = (*Plugin)(nil)
	_ plugin.Stateful = (*Plugin)(nil)
)

// New creates the plugin. maxTicks is construction config: it survives
// NewDefault but is never part of the saved state.
func New(maxTicks int) *Plugin {
	return &Plugin{MaxTicks: maxTicks}
}

// ID returns the plugin id.
func (p *Plugin) ID() uuid.UUID { return ID }

// Name returns the plugin name.
func (p *Plugin) Name() string { return Name }

// NewDefault returns a fresh game equal to New(p.MaxTicks): all game state
// is reset and only the construction config is carried over.
func (p *Plugin) NewDefault() plugin.Plugin { return New(p.MaxTicks) }

// OnRegister registers the spinner node type.
func (p *Plugin) OnRegister(ctx plugin.RegistrationContext) {
	err := ctx.Serialization.RegisterNode(SpinnerTypeID, "spinner", func() *scene.Node {
		n := scene.NewBase("Spinner")
		n.Properties = map[string]any{"speed": math.Pi, "angle": 0.0}
		return n
	})
	if err != nil {
		errutil.LogError(nil, "register spinner failed", err, "plugin", Name)
	}
}

// OnInit builds the scene. With an override the nodes are added to that
// scene instead of a new one.
func (p *Plugin) OnInit(override pool.Handle[scene.Scene], ctx *plugin.Context) {
	if ctx.Scenes.Contains(override) {
		p.scene, p.ownsScene = override, false
	} else {
		if !override.IsNone() {
			ctx.Logger.Warn("override scene not found, creating own scene", "override", override.String())
		}
		p.scene, p.ownsScene = ctx.Scenes.Add(scene.New("Playground")), true
	}
	p.session = 0
	graph := ctx.Scenes.Get(p.scene).Graph

	body := graph.Add(scene.NewRigidBody("Body"), pool.None[scene.Node]())
	box := graph.Add(scene.NewCollider("Box", scene.DefaultCuboid()), body)
	hinge := graph.Add(scene.NewJoint("Hinge", scene.DefaultRevoluteJoint()), pool.None[scene.Node]())
	p.nodes = []pool.Handle[scene.Node]{body, box, hinge}

	if n, err := ctx.Serialization.NewNode(SpinnerTypeID); err != nil {
		errutil.LogError(ctx.Logger, "spinner unavailable", err)
	} else {
		p.spinner = graph.Add(n, body)
	}

	p.overlay = &overlay{}
	if err := ctx.Renderer.AddPass(p.overlay); err != nil {
		errutil.LogError(ctx.Logger, "overlay pass not added", err)
	}

	if res, err := ctx.Resources.Load(context.Background(), BannerPath); err == nil {
		ctx.Logger.Info(string(res.Data))
	} else {
		ctx.Logger.Debug("no banner", "path", BannerPath)
	}
	ctx.Logger.Info("playground ready", "scene", p.scene.String(), "nodes", graph.Len()-1)
}

// Update advances the game by one tick.
func (p *Plugin) Update(ctx *plugin.Context, flow *plugin.ControlFlow) {
	p.Ticks++
	p.session++
	if !p.Paused {
		p.spin(ctx, float64(ctx.Dt))
	}
	if p.MaxTicks > 0 && p.session >= p.MaxTicks {
		ctx.Logger.Info("tick limit reached", "session_ticks", p.session, "ticks", p.Ticks)
		flow.RequestExit()
	}
}

func (p *Plugin) spin(ctx *plugin.Context, dt float64) {
	s := ctx.Scenes.Get(p.scene)
	if s == nil {
		return
	}
	n := s.Graph.Get(p.spinner)
	if n == nil {
		return
	}
	speed, _ := n.Properties["speed"].(float64)
	p.Angle = math.Mod(p.Angle+speed*dt, 2*math.Pi)
	n.Properties["angle"] = p.Angle
}

// OnOSEvent exits on Escape and toggles the spinner on Space.
func (p *Plugin) OnOSEvent(ev window.Event, ctx *plugin.Context, flow *plugin.ControlFlow) {
	key, ok := ev.(window.KeyboardInput)
	if !ok || !key.Pressed {
		return
	}
	switch key.Key {
	case window.KeyEscape:
		flow.RequestExit()
	case window.KeySpace:
		p.Paused = !p.Paused
		ctx.Logger.Debug("spinner toggled", "paused", p.Paused)
	}
}

// OnDeinit removes the overlay and everything the game added.
func (p *Plugin) OnDeinit(ctx *plugin.Context) {
	if p.overlay != nil {
		ctx.Renderer.RemovePass(p.overlay.Name())
		p.overlay = nil
	}
	if p.ownsScene {
		ctx.Scenes.Remove(p.scene)
	} else if s := ctx.Scenes.Get(p.scene); s != nil {
		for _, h := range p.nodes {
			s.Graph.Remove(h)
		}
	}
	p.scene = pool.None[scene.Scene]()
	p.spinner = pool.None[scene.Node]()
	p.nodes = nil
}

// Overlay returns the number of frames the debug overlay drew, or zero
// when the game is not active.
func (p *Plugin) Overlay() uint64 {
	if p.overlay == nil {
		return 0
	}
	return p.overlay.frames
}

type state struct {
	Ticks  int     `yaml:"ticks"`
	Angle  float64 `yaml:"angle"`
	Paused bool    `yaml:"paused"`
}

// SaveState returns the game progress.
func (p *Plugin) SaveState() any {
	return state{Ticks: p.Ticks, Angle: p.Angle, Paused: p.Paused}
}

// LoadState restores the game progress. Undecodable state is ignored.
func (p *Plugin) LoadState(decode func(any) error) {
	var s state
	if err := decode(&s); err != nil {
		errutil.LogError(nil, "playground state ignored", err, "plugin", Name)
		return
	}
	p.Ticks, p.Angle, p.Paused = s.Ticks, s.Angle, s.Paused
}
