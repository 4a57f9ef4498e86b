// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package host_test

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/emberforge/ember/pkg/plugin"
	"github.com/emberforge/ember/pkg/pool"
	"github.com/emberforge/ember/pkg/render"
	"github.com/emberforge/ember/pkg/scene"
	"github.com/emberforge/ember/pkg/window"
)

var (
	idA       = uuid.MustParse("0f5f3c1e-6d1a-4b7e-9a31-1c2d3e4f5a01")
	idB       = uuid.MustParse("0f5f3c1e-6d1a-4b7e-9a31-1c2d3e4f5a02")
	idC       = uuid.MustParse("0f5f3c1e-6d1a-4b7e-9a31-1c2d3e4f5a03")
	nodeType  = uuid.MustParse("5b7e0c2a-1111-4c3d-8e9f-000000000001")
	otherType = uuid.MustParse("5b7e0c2a-1111-4c3d-8e9f-000000000002")
)

// journal records calls across plugins in invocation order.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(format string, args ...any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, fmt.Sprintf(format, args...))
}

func (j *journal) all() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return slices.Clone(j.entries)
}

func (j *journal) with(prefix string) []string {
	var out []string
	for _, e := range j.all() {
		if strings.HasPrefix(e, prefix) {
			out = append(out, e)
		}
	}
	return out
}

// recorder logs every lifecycle call together with the context capability
// it touched.
type recorder struct {
	plugin.Base
	id      uuid.UUID
	name    string
	journal *journal

	// exitOnUpdate requests exit on that update (1-based); zero never exits.
	exitOnUpdate int
	// waitOnUpdate leaves ControlFlowWait after every update.
	waitOnUpdate bool

	Updates  int
	Dts      []float32
	Override pool.Handle[scene.Scene]
	Events   []window.Event
	Widths   []uint32
	Scene    pool.Handle[scene.Scene]
}

func newRecorder(id uuid.UUID, name string, j *journal) *recorder {
	return &recorder{id: id, name: name, journal: j}
}

func (r *recorder) ID() uuid.UUID { return r.id }
func (r *recorder) Name() string  { return r.name }

func (r *recorder) NewDefault() plugin.Plugin {
	return &recorder{
		id:           r.id,
		name:         r.name,
		journal:      r.journal,
		exitOnUpdate: r.exitOnUpdate,
		waitOnUpdate: r.waitOnUpdate,
	}
}

func (r *recorder) OnRegister(ctx plugin.RegistrationContext) {
	_ = ctx.Serialization.RegisterNode(nodeType, "recorded", func() *scene.Node {
		return scene.NewBase("recorded")
	})
	r.journal.add("%s:register:registry", r.name)
}

func (r *recorder) OnInit(override pool.Handle[scene.Scene], ctx *plugin.Context) {
	r.Override = override
	if override.IsNone() {
		r.Scene = ctx.Scenes.Add(scene.New(r.name))
	} else {
		r.Scene = override
	}
	r.journal.add("%s:init:scenes", r.name)
}

func (r *recorder) OnDeinit(ctx *plugin.Context) {
	if r.Override.IsNone() {
		ctx.Scenes.Remove(r.Scene)
	}
	r.journal.add("%s:deinit", r.name)
}

func (r *recorder) Update(ctx *plugin.Context, flow *plugin.ControlFlow) {
	r.Updates++
	r.Dts = append(r.Dts, ctx.Dt)
	_ = ctx.Scenes.Get(r.Scene)
	_ = ctx.Resources.Root()
	r.journal.add("%s:update:scenes,resources", r.name)
	if r.waitOnUpdate {
		*flow = plugin.ControlFlowWait
	}
	if r.exitOnUpdate > 0 && r.Updates == r.exitOnUpdate {
		flow.RequestExit()
	}
}

func (r *recorder) OnOSEvent(ev window.Event, ctx *plugin.Context, flow *plugin.ControlFlow) {
	r.Events = append(r.Events, ev)
	r.Widths = append(r.Widths, ctx.Window.Width)
	r.journal.add("%s:event:%s", r.name, ev.Kind())
	if k, ok := ev.(window.KeyboardInput); ok && k.Key == window.KeyEscape && k.Pressed {
		flow.RequestExit()
	}
}

// typeA and typeB are two distinct plugin types.
type typeA struct{ plugin.Base }

func (*typeA) ID() uuid.UUID             { return idA }
func (*typeA) NewDefault() plugin.Plugin { return &typeA{} }

type typeB struct{ plugin.Base }

func (*typeB) ID() uuid.UUID             { return idB }
func (*typeB) NewDefault() plugin.Plugin { return &typeB{} }

// conflicting registers a node type id already claimed under another name.
type conflicting struct {
	plugin.Base
	err error
}

func (*conflicting) ID() uuid.UUID             { return idC }
func (*conflicting) NewDefault() plugin.Plugin { return &conflicting{} }

func (c *conflicting) OnRegister(ctx plugin.RegistrationContext) {
	c.err = ctx.Serialization.RegisterNode(nodeType, "other", func() *scene.Node {
		return scene.NewBase("other")
	})
	_ = ctx.Serialization.RegisterNode(otherType, "other", func() *scene.Node {
		return scene.NewBase("other")
	})
}

// nilID reports the nil UUID.
type nilID struct{ plugin.Base }

func (*nilID) ID() uuid.UUID             { return uuid.Nil }
func (*nilID) NewDefault() plugin.Plugin { return &nilID{} }

// versioned requires a host API version.
type versioned struct {
	plugin.Base
	constraint string
}

func (*versioned) ID() uuid.UUID             { return idC }
func (*versioned) NewDefault() plugin.Plugin { return &versioned{} }
func (v *versioned) RequiredAPI() string     { return v.constraint }

// badDefault returns an instance with a different id from NewDefault.
type badDefault struct {
	plugin.Base
	Value int
}

func (*badDefault) ID() uuid.UUID             { return idC }
func (*badDefault) NewDefault() plugin.Plugin { return &typeA{} }

// countingPass counts rendered frames.
type countingPass struct{ frames int }

func (*countingPass) Name() string { return "counting" }

func (p *countingPass) Render(*render.Frame) error {
	p.frames++
	return nil
}

// failingPass fails every frame.
type failingPass struct{}

func (failingPass) Name() string { return "failing" }

func (failingPass) Render(*render.Frame) error {
	return errors.New("gpu lost")
}
