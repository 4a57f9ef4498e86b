// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package host

import (
	"context"
	"time"

	"github.com/samber/oops"

	"github.com/emberforge/ember/pkg/window"
)

// Run drives fixed-rate updates and delivers events until a plugin requests
// exit, a window.CloseRequested event arrives, or ctx is done. Updates and
// events are handled on the calling goroutine. A closed events channel only
// stops event delivery.
//
// When Run returns, every active plugin has received OnDeinit in reverse
// registration order. Plugins must have been initialized by the caller.
func (h *Host) Run(ctx context.Context, events <-chan window.Event) error {
	if !h.running.CompareAndSwap(false, true) {
		return oops.In("host").Code("HOST_RUNNING").Errorf("host loop already running")
	}
	defer h.running.Store(false)
	defer h.Deinit()

	ticker := time.NewTicker(h.Timestep())
	defer ticker.Stop()

	h.logger.Info("host loop started", "tick_rate", h.tickRate, "plugins", h.Active())
	last := time.Now()
	ticks := 0
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("host loop stopped", "reason", "context", "ticks", ticks)
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			ticks++
			if h.Update(dt).IsExit() {
				h.logger.Info("host loop stopped", "reason", "exit requested", "ticks", ticks)
				return nil
			}
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			flow := h.HandleOSEvent(ev)
			if _, closing := ev.(window.CloseRequested); closing || flow.IsExit() {
				h.logger.Info("host loop stopped", "reason", stopReason(closing), "ticks", ticks)
				return nil
			}
		}
	}
}

func stopReason(closeRequested bool) string {
	if closeRequested {
		return "close requested"
	}
	return "exit requested"
}
