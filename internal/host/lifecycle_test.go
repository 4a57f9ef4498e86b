// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package host_test

import (
	"io"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/emberforge/ember/internal/host"
	"github.com/emberforge/ember/pkg/plugin"
	"github.com/emberforge/ember/pkg/pool"
	"github.com/emberforge/ember/pkg/scene"
	"github.com/emberforge/ember/pkg/window"
)

var _ = Describe("Plugin lifecycle", func() {
	var (
		h *host.Host
		j *journal
		p *recorder
	)

	BeforeEach(func() {
		h = host.New(host.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
		j = &journal{}
		p = newRecorder(idA, "p", j)
	})

	Describe("register, init without override, three updates, deinit", func() {
		BeforeEach(func() {
			Expect(h.Register(p)).To(Succeed())
			h.Init(pool.None[scene.Scene]())
			for range 3 {
				h.Update(16 * time.Millisecond)
			}
			h.Deinit()
		})

		It("touches each capability only in its phase", func() {
			Expect(j.all()).To(Equal([]string{
				"p:register:registry",
				"p:init:scenes",
				"p:update:scenes,resources",
				"p:update:scenes,resources",
				"p:update:scenes,resources",
				"p:deinit",
			}))
		})

		It("receives no override scene", func() {
			Expect(p.Override.IsNone()).To(BeTrue())
		})

		It("sees non-negative elapsed time on every update", func() {
			Expect(p.Dts).To(HaveLen(3))
			for _, dt := range p.Dts {
				Expect(dt).To(BeNumerically(">=", 0))
				Expect(dt).To(BeNumerically("~", 0.016, 1e-6))
			}
		})

		It("is never called after deinit", func() {
			before := len(j.all())
			h.Update(16 * time.Millisecond)
			h.HandleOSEvent(window.CursorMoved{X: 4, Y: 2})
			h.Deinit()
			Expect(j.all()).To(HaveLen(before))
			Expect(h.State(idA)).To(Equal(host.StateInactive))
		})

		It("removes the scene it created", func() {
			Expect(h.Scenes().Len()).To(BeZero())
		})
	})

	Describe("ordering guarantees", func() {
		It("registers exactly once before any init", func() {
			Expect(h.Register(p)).To(Succeed())
			h.Init(pool.None[scene.Scene]())
			h.Deinit()
			h.Init(pool.None[scene.Scene]())

			entries := j.all()
			Expect(entries[0]).To(Equal("p:register:registry"))
			Expect(j.with("p:register")).To(HaveLen(1))
		})

		It("never deinitializes a plugin that was not initialized", func() {
			Expect(h.Register(p)).To(Succeed())
			h.Deinit()
			h.Reset()
			Expect(j.with("p:deinit")).To(BeEmpty())
		})
	})

	Describe("two distinct plugin types", func() {
		It("keeps ids distinct and refuses the wrong downcast", func() {
			var a plugin.Plugin = &typeA{}
			var b plugin.Plugin = &typeB{}
			Expect(h.Register(a)).To(Succeed())
			Expect(h.Register(b)).To(Succeed())

			Expect(a.ID()).NotTo(Equal(b.ID()))
			_, ok := plugin.Cast[*typeB](a)
			Expect(ok).To(BeFalse())
			Expect(plugin.Is[*typeB](b)).To(BeTrue())
		})
	})

	Describe("exit requested mid-tick", func() {
		It("finishes the tick and leaves deinit to the caller", func() {
			q := newRecorder(idB, "q", j)
			p.exitOnUpdate = 1
			Expect(h.Register(p)).To(Succeed())
			Expect(h.Register(q)).To(Succeed())
			h.Init(pool.None[scene.Scene]())

			Expect(h.Update(time.Millisecond)).To(Equal(plugin.ControlFlowExit))
			Expect(q.Updates).To(Equal(1))
			Expect(h.Active()).To(Equal(2))
		})
	})
})
