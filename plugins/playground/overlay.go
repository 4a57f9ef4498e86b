// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package playground

import (
	"github.com/emberforge/ember/pkg/render"
)

// overlay is the debug overlay render pass. It counts the nodes it would
// draw.
type overlay struct {
	frames uint64
	nodes  int
}

func (*overlay) Name() string { return "debug-overlay" }

func (o *overlay) Render(f *render.Frame) error {
	o.frames++
	o.nodes = 0
	for _, h := range f.Scenes.Handles() {
		if s := f.Scenes.Get(h); s != nil && s.Enabled {
			o.nodes += s.Graph.Len() - 1
		}
	}
	return nil
}
