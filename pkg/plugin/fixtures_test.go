// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package plugin_test

import (
	"github.com/google/uuid"

	"github.com/emberforge/ember/pkg/plugin"
)

var (
	alphaID = uuid.MustParse("3b9c6f0e-2a8d-4f1e-9c7b-5d4e3f2a1b01")
	betaID  = uuid.MustParse("7e1f2d3c-4b5a-4968-8776-a5b4c3d2e102")
	gammaID = uuid.MustParse("c0ffee00-1234-4abc-8def-0123456789ab")
)

type alpha struct {
	plugin.Base
	Counter int
	Label   string
}

func (a *alpha) ID() uuid.UUID             { return alphaID }
func (a *alpha) NewDefault() plugin.Plugin { return &alpha{Label: "alpha"} }
func (a *alpha) Name() string              { return "alpha" }

type beta struct {
	plugin.Base
	Ticks []float32
}

func (b *beta) ID() uuid.UUID             { return betaID }
func (b *beta) NewDefault() plugin.Plugin { return &beta{} }

func (b *beta) Update(ctx *plugin.Context, _ *plugin.ControlFlow) {
	b.Ticks = append(b.Ticks, ctx.Dt)
}

type gamma struct {
	plugin.Base
	required string
}

func (g *gamma) ID() uuid.UUID             { return gammaID }
func (g *gamma) NewDefault() plugin.Plugin { return &gamma{} }
func (g *gamma) RequiredAPI() string       { return g.required }
