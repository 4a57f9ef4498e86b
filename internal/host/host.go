// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package host drives plugins through their lifecycle.
//
// The host owns every collaborator exposed through plugin contexts and
// calls plugins from a single goroutine: registration, init, fixed-rate
// updates, window events, deinit and reset. Read-only queries such as
// Plugins and State are safe from other goroutines.
package host

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/emberforge/ember/internal/observability"
	"github.com/emberforge/ember/pkg/errutil"
	"github.com/emberforge/ember/pkg/plugin"
	"github.com/emberforge/ember/pkg/pool"
	"github.com/emberforge/ember/pkg/render"
	"github.com/emberforge/ember/pkg/resource"
	"github.com/emberforge/ember/pkg/scene"
	"github.com/emberforge/ember/pkg/serialization"
	"github.com/emberforge/ember/pkg/ui"
	"github.com/emberforge/ember/pkg/window"
)

// DefaultTickRate is the number of updates per second when no rate is set.
const DefaultTickRate = 60

type entry struct {
	id     uuid.UUID
	name   string
	plugin plugin.Plugin
	state  State
	logger *slog.Logger
}

// Host registers plugins and invokes their lifecycle callbacks.
type Host struct {
	mu      sync.RWMutex
	entries []*entry
	byID    map[uuid.UUID]*entry

	logger    *slog.Logger
	metrics   *observability.Metrics
	registry  *serialization.Context
	scenes    *scene.Container
	resources *resource.Manager
	ui        *ui.UserInterface
	renderer  *render.Renderer
	window    *window.Window
	tickRate  int
	running   atomic.Bool
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the host logger. Plugin loggers derive from it.
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithMetrics records lifecycle metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(h *Host) {
		h.metrics = m
	}
}

// WithWindow sets the window exposed to plugins.
func WithWindow(w *window.Window) Option {
	return func(h *Host) {
		if w != nil {
			h.window = w
		}
	}
}

// WithResources sets the resource manager exposed to plugins.
func WithResources(m *resource.Manager) Option {
	return func(h *Host) {
		if m != nil {
			h.resources = m
		}
	}
}

// WithTickRate sets the number of fixed updates per second Run drives.
// Non-positive rates are ignored.
func WithTickRate(hz int) Option {
	return func(h *Host) {
		if hz > 0 {
			h.tickRate = hz
		}
	}
}

// New creates a host with its own scene container, UI, renderer and type
// registry.
func New(opts ...Option) *Host {
	h := &Host{
		byID:     make(map[uuid.UUID]*entry),
		logger:   slog.Default(),
		registry: serialization.NewContext(),
		scenes:   scene.NewContainer(),
		ui:       ui.New(),
		window:   window.New("Ember", 1280, 720),
		tickRate: DefaultTickRate,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.renderer = render.NewRenderer(h.logger.With("component", "renderer"))
	if h.resources == nil {
		// Cannot fail with the default cache size.
		h.resources, _ = resource.NewManager(".", resource.WithLogger(h.logger))
	}
	return h
}

// Scenes returns the host's scene container.
func (h *Host) Scenes() *scene.Container { return h.scenes }

// UI returns the host's user interface root.
func (h *Host) UI() *ui.UserInterface { return h.ui }

// Renderer returns the host's renderer.
func (h *Host) Renderer() *render.Renderer { return h.renderer }

// Window returns the host's window.
func (h *Host) Window() *window.Window { return h.window }

// Resources returns the host's resource manager.
func (h *Host) Resources() *resource.Manager { return h.resources }

// Serialization returns the shared type registry.
func (h *Host) Serialization() *serialization.Context { return h.registry }

// Timestep returns the fixed update interval.
func (h *Host) Timestep() time.Duration {
	return time.Second / time.Duration(h.tickRate)
}

// Register adds p to the host and calls its OnRegister. Plugins are
// initialized and updated in registration order.
func (h *Host) Register(p plugin.Plugin) error {
	errb := oops.In("host")
	if p == nil {
		return errb.Code("PLUGIN_NIL").Errorf("plugin is nil")
	}
	id := p.ID()
	if id == uuid.Nil {
		return errb.Code("PLUGIN_ID_NIL").With("type", typeName(p)).Errorf("plugin id is the nil UUID")
	}
	if err := plugin.CheckAPI(p); err != nil {
		return err
	}

	name := plugin.DisplayName(p)
	e := &entry{
		id:     id,
		name:   name,
		plugin: p,
		state:  StateUnregistered,
		logger: h.logger.With("plugin", name),
	}

	h.mu.Lock()
	if existing, dup := h.byID[id]; dup {
		h.mu.Unlock()
		return errb.Code("PLUGIN_DUPLICATE").
			With("plugin_id", id.String()).
			With("existing", existing.name).
			Errorf("plugin %s already registered", id)
	}
	h.byID[id] = e
	h.entries = append(h.entries, e)
	h.mu.Unlock()

	h.register(e)
	h.logger.Info("plugin registered", "plugin", name, "plugin_id", id.String())
	return nil
}

func (h *Host) register(e *entry) {
	e.plugin.OnRegister(plugin.RegistrationContext{Serialization: h.registry})
	h.setState(e, StateRegistered)
	h.metrics.Transition(e.name, "register")
}

// Init activates every registered or inactive plugin in registration order.
// override is handed to each plugin; it is pool.None outside play mode.
func (h *Host) Init(override pool.Handle[scene.Scene]) {
	for _, e := range h.snapshot() {
		if h.stateOf(e).canInit() {
			h.initEntry(e, override)
		}
	}
	h.metrics.SetActive(h.Active())
}

func (h *Host) initEntry(e *entry, override pool.Handle[scene.Scene]) {
	e.plugin.OnInit(override, h.context(e, h.fixedDt()))
	h.setState(e, StateActive)
	h.metrics.Transition(e.name, "init")
	e.logger.Debug("plugin initialized", "override", override.String())
}

// Deinit deactivates every active plugin in reverse registration order.
func (h *Host) Deinit() {
	entries := h.snapshot()
	for _, e := range slices.Backward(entries) {
		if h.stateOf(e) == StateActive {
			h.deinitEntry(e)
		}
	}
	h.metrics.SetActive(h.Active())
}

func (h *Host) deinitEntry(e *entry) {
	e.plugin.OnDeinit(h.context(e, h.fixedDt()))
	h.setState(e, StateInactive)
	h.metrics.Transition(e.name, "deinit")
	e.logger.Debug("plugin deinitialized")
}

// Update runs one fixed tick: every active plugin's Update in registration
// order, then one rendered frame. A negative dt is treated as zero. The
// returned flow is the strongest request made by any plugin; a plugin
// requesting exit does not prevent later plugins from receiving this tick.
func (h *Host) Update(dt time.Duration) plugin.ControlFlow {
	if dt < 0 {
		dt = 0
	}
	seconds := float32(dt.Seconds())
	h.metrics.Tick()

	result := plugin.ControlFlowWait
	updated := false
	for _, e := range h.snapshot() {
		if h.stateOf(e) != StateActive {
			continue
		}
		flow := plugin.ControlFlowPoll
		start := time.Now()
		e.plugin.Update(h.context(e, seconds), &flow)
		h.metrics.ObserveUpdate(e.name, time.Since(start))
		h.noteExit(e, flow, "update")
		result = result.Merge(flow)
		updated = true
	}

	// The renderer logs each failed pass with its frame number.
	_ = h.renderer.RenderFrame(h.scenes, h.window)

	if !updated {
		return plugin.ControlFlowPoll
	}
	return result
}

// HandleOSEvent applies ev to the window and delivers it to every active
// plugin. The result is merged the same way as in Update.
func (h *Host) HandleOSEvent(ev window.Event) plugin.ControlFlow {
	if ev == nil {
		return plugin.ControlFlowPoll
	}
	h.window.Apply(ev)
	h.metrics.OSEvent(string(ev.Kind()))

	result := plugin.ControlFlowWait
	delivered := false
	for _, e := range h.snapshot() {
		if h.stateOf(e) != StateActive {
			continue
		}
		flow := plugin.ControlFlowPoll
		e.plugin.OnOSEvent(ev, h.context(e, h.fixedDt()), &flow)
		h.noteExit(e, flow, "os_event")
		result = result.Merge(flow)
		delivered = true
	}
	if !delivered {
		return plugin.ControlFlowPoll
	}
	return result
}

func (h *Host) noteExit(e *entry, flow plugin.ControlFlow, source string) {
	if !flow.IsExit() {
		return
	}
	h.metrics.ExitRequested(e.name)
	e.logger.Info("plugin requested exit", "source", source)
}

// Reset replaces every plugin with its default instance. Active plugins
// are deinitialized first, the fresh instances are registered, and the
// ones that were active are initialized again without an override.
func (h *Host) Reset() {
	entries := h.snapshot()
	wasActive := make(map[*entry]bool, len(entries))
	for _, e := range entries {
		wasActive[e] = h.stateOf(e) == StateActive
	}
	h.Deinit()

	for _, e := range entries {
		fresh := e.plugin.NewDefault()
		if fresh == nil || fresh.ID() != e.id {
			err := oops.In("host").Code("PLUGIN_DEFAULT_INVALID").
				With("plugin", e.name).
				Errorf("default instance is nil or has a different id")
			errutil.LogError(e.logger, "plugin reset skipped", err)
			continue
		}
		h.mu.Lock()
		e.plugin = fresh
		e.state = StateUnregistered
		h.mu.Unlock()
		h.register(e)
		h.metrics.Transition(e.name, "reset")
	}

	for _, e := range entries {
		if wasActive[e] && h.stateOf(e).canInit() {
			h.initEntry(e, pool.None[scene.Scene]())
		}
	}
	h.metrics.SetActive(h.Active())
	h.logger.Info("plugins reset", "count", len(entries))
}

// Plugins returns the registered plugins in registration order.
func (h *Host) Plugins() []plugin.Plugin {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]plugin.Plugin, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.plugin
	}
	return out
}

// Plugin returns the plugin registered under id.
func (h *Host) Plugin(id uuid.UUID) (plugin.Plugin, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	e, ok := h.byID[id]
	if !ok {
		return nil, false
	}
	return e.plugin, true
}

// State returns the lifecycle state of the plugin registered under id, or
// StateUnregistered for unknown ids.
func (h *Host) State(id uuid.UUID) State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if e, ok := h.byID[id]; ok {
		return e.state
	}
	return StateUnregistered
}

// Active returns the number of active plugins.
func (h *Host) Active() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, e := range h.entries {
		if e.state == StateActive {
			n++
		}
	}
	return n
}

func (h *Host) context(e *entry, dt float32) *plugin.Context {
	return &plugin.Context{
		Scenes:        h.scenes,
		Resources:     h.resources,
		UI:            h.ui,
		Renderer:      h.renderer,
		Dt:            dt,
		Serialization: h.registry,
		Window:        h.window,
		Logger:        e.logger,
	}
}

func (h *Host) fixedDt() float32 {
	return float32(h.Timestep().Seconds())
}

func (h *Host) snapshot() []*entry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.entries)
}

func (h *Host) stateOf(e *entry) State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return e.state
}

func (h *Host) setState(e *entry, s State) {
	h.mu.Lock()
	e.state = s
	h.mu.Unlock()
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
