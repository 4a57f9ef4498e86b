// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package render keeps the list of render passes and drives them once per
// frame. Drawing itself belongs to the passes.
package render

import (
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/emberforge/ember/pkg/scene"
	"github.com/emberforge/ember/pkg/window"
)

// Frame is the per-frame input handed to every pass.
type Frame struct {
	Number uint64
	Scenes *scene.Container
	Window *window.Window
}

// Pass is a custom render pass.
type Pass interface {
	// Name identifies the pass; names are unique within a renderer.
	Name() string
	// Render is called once per frame in registration order.
	Render(f *Frame) error
}

// Renderer owns registered passes.
type Renderer struct {
	passes []Pass
	frames uint64
	logger *slog.Logger
}

// NewRenderer creates a renderer without passes. A nil logger uses slog.Default.
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger}
}

// AddPass registers p. Names must be unique.
func (r *Renderer) AddPass(p Pass) error {
	if p == nil {
		return oops.In("render").Code("PASS_NIL").Errorf("render pass is nil")
	}
	for _, existing := range r.passes {
		if existing.Name() == p.Name() {
			return oops.In("render").Code("PASS_DUPLICATE").With("pass", p.Name()).
				Errorf("render pass %q already registered", p.Name())
		}
	}
	r.passes = append(r.passes, p)
	return nil
}

// RemovePass unregisters the pass named name and reports whether it existed.
func (r *Renderer) RemovePass(name string) bool {
	for i, p := range r.passes {
		if p.Name() == name {
			r.passes = append(r.passes[:i], r.passes[i+1:]...)
			return true
		}
	}
	return false
}

// Passes returns pass names in registration order.
func (r *Renderer) Passes() []string {
	names := make([]string, len(r.passes))
	for i, p := range r.passes {
		names[i] = p.Name()
	}
	return names
}

// Frames returns the number of rendered frames.
func (r *Renderer) Frames() uint64 {
	return r.frames
}

// RenderFrame runs every pass. A failing pass does not stop later passes;
// all failures are returned together.
func (r *Renderer) RenderFrame(scenes *scene.Container, w *window.Window) error {
	r.frames++
	f := &Frame{Number: r.frames, Scenes: scenes, Window: w}

	var errs []error
	for _, p := range r.passes {
		if err := p.Render(f); err != nil {
			r.logger.Warn("render pass failed", "pass", p.Name(), "frame", f.Number, "error", err)
			errs = append(errs, oops.In("render").With("pass", p.Name()).Wrap(err))
		}
	}
	return errors.Join(errs...)
}
