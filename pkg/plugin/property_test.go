// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package plugin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/emberforge/ember/pkg/plugin"
)

// genPlugin draws an instance of one of the fixture types in an arbitrary state.
func genPlugin() *rapid.Generator[plugin.Plugin] {
	return rapid.Custom(func(t *rapid.T) plugin.Plugin {
		switch rapid.IntRange(0, 2).Draw(t, "type") {
		case 0:
			return &alpha{
				Counter: rapid.Int().Draw(t, "counter"),
				Label:   rapid.String().Draw(t, "label"),
			}
		case 1:
			return &beta{Ticks: rapid.SliceOf(rapid.Float32()).Draw(t, "ticks")}
		default:
			return &gamma{required: rapid.String().Draw(t, "required")}
		}
	})
}

func TestProperty_IDIsStable(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := genPlugin().Draw(rt, "plugin")
		first := p.ID()

		for range rapid.IntRange(1, 5).Draw(rt, "calls") {
			assert.Equal(rt, first, p.ID())
		}
		assert.Equal(rt, first, p.NewDefault().ID(), "independent instances share the id")
	})
}

func TestProperty_CastMatchesDynamicType(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := genPlugin().Draw(rt, "plugin")

		_, isAlpha := p.(*alpha)
		_, isBeta := p.(*beta)
		_, isGamma := p.(*gamma)

		_, ok := plugin.Cast[*alpha](p)
		assert.Equal(rt, isAlpha, ok)
		_, ok = plugin.Cast[*beta](p)
		assert.Equal(rt, isBeta, ok)
		_, ok = plugin.Cast[*gamma](p)
		assert.Equal(rt, isGamma, ok)
	})
}

func TestProperty_DefaultInstanceCastsBack(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := genPlugin().Draw(rt, "plugin")
		fresh := p.NewDefault()

		switch p.(type) {
		case *alpha:
			got, ok := plugin.Cast[*alpha](fresh)
			require.True(rt, ok)
			assert.Equal(rt, &alpha{Label: "alpha"}, got)
		case *beta:
			got, ok := plugin.Cast[*beta](fresh)
			require.True(rt, ok)
			assert.Equal(rt, &beta{}, got)
		case *gamma:
			got, ok := plugin.Cast[*gamma](fresh)
			require.True(rt, ok)
			assert.Equal(rt, &gamma{}, got)
		}
	})
}

func TestProperty_DistinctTypesHaveDistinctIDs(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := genPlugin().Draw(rt, "a")
		b := genPlugin().Draw(rt, "b")

		sameType := plugin.Is[*alpha](a) && plugin.Is[*alpha](b) ||
			plugin.Is[*beta](a) && plugin.Is[*beta](b) ||
			plugin.Is[*gamma](a) && plugin.Is[*gamma](b)
		assert.Equal(rt, sameType, a.ID() == b.ID())
	})
}
