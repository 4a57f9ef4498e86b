// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/emberforge/ember/internal/observability"
	"github.com/emberforge/ember/internal/persist"
	"github.com/emberforge/ember/pkg/window"
	"github.com/emberforge/ember/plugins/playground"
)

// fakeObsServer implements ObservabilityServer for testing.
type fakeObsServer struct {
	mu       sync.Mutex
	addr     string
	ready    observability.ReadinessChecker
	startErr error
	started  bool
	stopped  bool
	errCh    chan error
	metrics  *observability.Metrics
}

func newFakeObsServer() *fakeObsServer {
	return &fakeObsServer{
		errCh:   make(chan error, 1),
		metrics: observability.NewMetrics(prometheus.NewRegistry()),
	}
}

func (f *fakeObsServer) factory(addr string, ready observability.ReadinessChecker, _ *slog.Logger) ObservabilityServer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addr = addr
	f.ready = ready
	return f
}

func (f *fakeObsServer) Start() (<-chan error, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return nil, f.startErr
	}
	f.started = true
	return f.errCh, nil
}

func (f *fakeObsServer) Stop(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return nil
}

func (f *fakeObsServer) Addr() string { return f.addr }

func (f *fakeObsServer) Metrics() *observability.Metrics { return f.metrics }

// runEnv is an isolated run command with its own resource and snapshot paths.
type runEnv struct {
	dir       string
	resources string
	snapshot  string
}

func newRunEnv(t *testing.T) *runEnv {
	t.Helper()
	dir := isolate(t)
	return &runEnv{
		dir:       dir,
		resources: filepath.Join(dir, "resources"),
		snapshot:  filepath.Join(dir, "snapshot.yaml"),
	}
}

// command builds a parsed run command writing to out.
func (e *runEnv) command(t *testing.T, out io.Writer, args ...string) *cobra.Command {
	t.Helper()
	cmd := NewRunCmd()
	args = append([]string{"--resources", e.resources, "--snapshot", e.snapshot}, args...)
	require.NoError(t, cmd.ParseFlags(args))
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	return cmd
}

func (e *runEnv) deps(obs *fakeObsServer) *RunDeps {
	deps := &RunDeps{
		SignalContext: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return context.WithCancel(ctx)
		},
	}
	if obs != nil {
		deps.ObservabilityServerFactory = obs.factory
	}
	return deps
}

func playgroundTicks(t *testing.T, snap *persist.Snapshot) int {
	t.Helper()
	for _, rec := range snap.Plugins {
		if rec.ID != playground.ID {
			continue
		}
		var st struct {
			Ticks int `yaml:"ticks"`
		}
		require.NoError(t, rec.State.Decode(&st))
		return st.Ticks
	}
	t.Fatalf("no playground record in snapshot")
	return 0
}

func TestRun_TicksSavesAndRestoresSnapshot(t *testing.T) {
	env := newRunEnv(t)

	var out bytes.Buffer
	cmd := env.command(t, &out)
	require.NoError(t, runWithDeps(context.Background(), &runOptions{ticks: 3}, cmd, env.deps(nil)))
	assert.Contains(t, out.String(), "Ember started with 2 plugin(s)")
	assert.Contains(t, out.String(), "Ran 3 tick(s)")

	snap, err := persist.ReadFile(env.snapshot)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 3, playgroundTicks(t, snap))

	out.Reset()
	cmd = env.command(t, &out)
	require.NoError(t, runWithDeps(context.Background(), &runOptions{ticks: 2}, cmd, env.deps(nil)))

	snap, err = persist.ReadFile(env.snapshot)
	require.NoError(t, err)
	assert.Equal(t, 5, playgroundTicks(t, snap))
}

func TestRun_FreshIgnoresSnapshot(t *testing.T) {
	env := newRunEnv(t)

	cmd := env.command(t, io.Discard)
	require.NoError(t, runWithDeps(context.Background(), &runOptions{ticks: 4}, cmd, env.deps(nil)))

	cmd = env.command(t, io.Discard)
	require.NoError(t, runWithDeps(context.Background(), &runOptions{ticks: 1, fresh: true}, cmd, env.deps(nil)))

	snap, err := persist.ReadFile(env.snapshot)
	require.NoError(t, err)
	assert.Equal(t, 1, playgroundTicks(t, snap))
}

func TestRun_NoSaveLeavesNoSnapshot(t *testing.T) {
	env := newRunEnv(t)

	cmd := env.command(t, io.Discard)
	require.NoError(t, runWithDeps(context.Background(), &runOptions{ticks: 1, noSave: true}, cmd, env.deps(nil)))

	snap, err := persist.ReadFile(env.snapshot)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestRun_PluginExitStopsEarly(t *testing.T) {
	env := newRunEnv(t)
	path := writeFile(t, filepath.Join(env.dir, "ember.yaml"), "plugins:\n  playground:\n    max_ticks: 2\n")
	configFile = path

	var out bytes.Buffer
	cmd := env.command(t, &out)
	require.NoError(t, runWithDeps(context.Background(), &runOptions{ticks: 10, fresh: true}, cmd, env.deps(nil)))
	assert.Contains(t, out.String(), "Ran 2 tick(s)")
}

func TestRun_TickLimitAppliesPerRunWithRestoredState(t *testing.T) {
	env := newRunEnv(t)
	configFile = writeFile(t, filepath.Join(env.dir, "ember.yaml"), "plugins:\n  playground:\n    max_ticks: 3\n")

	for run := 1; run <= 3; run++ {
		var out bytes.Buffer
		cmd := env.command(t, &out)
		require.NoError(t, runWithDeps(context.Background(), &runOptions{ticks: 10}, cmd, env.deps(nil)))
		assert.Contains(t, out.String(), "Ran 3 tick(s)", "run %d", run)

		snap, err := persist.ReadFile(env.snapshot)
		require.NoError(t, err)
		assert.Equal(t, 3*run, playgroundTicks(t, snap), "run %d", run)
	}
}

func TestRun_LuaScriptRequestsExit(t *testing.T) {
	env := newRunEnv(t)
	writeFile(t, filepath.Join(env.resources, "scripts", "quit.lua"), `
local n = 0
function on_update(dt)
  n = n + 1
  if n >= 4 then
    engine.request_exit()
  end
end
`)
	path := writeFile(t, filepath.Join(env.dir, "ember.yaml"), "plugins:\n  enabled: [\"lua-*\"]\n")
	configFile = path

	var out bytes.Buffer
	cmd := env.command(t, &out)
	require.NoError(t, runWithDeps(context.Background(), &runOptions{ticks: 100}, cmd, env.deps(nil)))
	assert.Contains(t, out.String(), "Ember started with 1 plugin(s): [lua-script]")
	assert.Contains(t, out.String(), "Ran 4 tick(s)")
}

func TestRun_MetricsAndReadiness(t *testing.T) {
	env := newRunEnv(t)
	obs := newFakeObsServer()

	var duringRun observability.Readiness
	deps := env.deps(obs)
	deps.EventSource = func(context.Context) <-chan window.Event {
		duringRun = obs.ready()
		events := make(chan window.Event, 1)
		events <- window.CloseRequested{}
		return events
	}

	cmd := env.command(t, io.Discard, "--metrics-addr", "127.0.0.1:0")
	require.NoError(t, runWithDeps(context.Background(), &runOptions{}, cmd, deps))

	assert.Equal(t, "127.0.0.1:0", obs.addr)
	assert.True(t, obs.started)
	assert.True(t, obs.stopped)
	assert.True(t, duringRun.Ready())
	assert.Equal(t, 2, duringRun.ActivePlugins)
	assert.False(t, obs.ready().Ready())
	assert.InDelta(t, 0, testutil.ToFloat64(obs.metrics.PluginsActive), 0)
}

func TestRun_MetricsCountTicks(t *testing.T) {
	env := newRunEnv(t)
	obs := newFakeObsServer()

	cmd := env.command(t, io.Discard, "--metrics-addr", "127.0.0.1:0")
	require.NoError(t, runWithDeps(context.Background(), &runOptions{ticks: 3}, cmd, env.deps(obs)))

	assert.InDelta(t, 3, testutil.ToFloat64(obs.metrics.TicksTotal), 0)
}

func TestRun_ObservabilityStartFailure(t *testing.T) {
	env := newRunEnv(t)
	obs := newFakeObsServer()
	obs.startErr = errors.New("address in use")

	cmd := env.command(t, io.Discard, "--metrics-addr", "127.0.0.1:0")
	err := runWithDeps(context.Background(), &runOptions{ticks: 1}, cmd, env.deps(obs))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start observability server")
}

func TestRun_RealtimeLoopStopsOnContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	env := newRunEnv(t)
	writeFile(t, filepath.Join(env.resources, "playground", "banner.txt"), "hello")

	ctx, cancel := context.WithCancel(context.Background())
	deps := env.deps(nil)
	deps.EventSource = func(context.Context) <-chan window.Event {
		events := make(chan window.Event)
		go func() {
			events <- window.KeyboardInput{Key: window.KeySpace, Pressed: true}
			cancel()
		}()
		return events
	}

	cmd := env.command(t, io.Discard, "--tick-rate", "200")
	require.NoError(t, runWithDeps(ctx, &runOptions{}, cmd, deps))

	snap, err := persist.ReadFile(env.snapshot)
	require.NoError(t, err)
	require.NotNil(t, snap)
	for _, rec := range snap.Plugins {
		if rec.ID != playground.ID {
			continue
		}
		var st struct {
			Paused bool `yaml:"paused"`
		}
		require.NoError(t, rec.State.Decode(&st))
		assert.True(t, st.Paused)
	}
}

func TestRun_InvalidInput(t *testing.T) {
	t.Run("negative ticks", func(t *testing.T) {
		env := newRunEnv(t)
		cmd := env.command(t, io.Discard)
		err := runWithDeps(context.Background(), &runOptions{ticks: -1}, cmd, env.deps(nil))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ticks must not be negative")
	})

	t.Run("tick rate out of range", func(t *testing.T) {
		env := newRunEnv(t)
		cmd := env.command(t, io.Discard, "--tick-rate", "0")
		err := runWithDeps(context.Background(), &runOptions{ticks: 1}, cmd, env.deps(nil))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load configuration")
	})

	t.Run("corrupt snapshot", func(t *testing.T) {
		env := newRunEnv(t)
		writeFile(t, env.snapshot, "version: 99\n")
		cmd := env.command(t, io.Discard)
		err := runWithDeps(context.Background(), &runOptions{ticks: 1}, cmd, env.deps(nil))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read snapshot")
	})
}

func TestRunCommand_Flags(t *testing.T) {
	cmd := NewRunCmd()
	for _, name := range []string{"ticks", "fresh", "no-save", "tick-rate", "metrics-addr", "resources", "snapshot"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag %q", name)
	}
	assert.Equal(t, "60", cmd.Flags().Lookup("tick-rate").DefValue)
	assert.Empty(t, cmd.Flags().Lookup("metrics-addr").DefValue)
}
