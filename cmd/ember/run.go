// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/emberforge/ember/internal/config"
	"github.com/emberforge/ember/internal/host"
	"github.com/emberforge/ember/internal/observability"
	"github.com/emberforge/ember/internal/persist"
	"github.com/emberforge/ember/internal/xdg"
	"github.com/emberforge/ember/pkg/errutil"
	"github.com/emberforge/ember/pkg/pool"
	"github.com/emberforge/ember/pkg/resource"
	"github.com/emberforge/ember/pkg/scene"
	"github.com/emberforge/ember/pkg/window"
)

// runOptions holds command options that are not configuration.
type runOptions struct {
	ticks  int
	fresh  bool
	noSave bool
}

// shutdownTimeout bounds how long servers get to stop.
const shutdownTimeout = 5 * time.Second

// NewRunCmd creates the run subcommand.
func NewRunCmd() *cobra.Command {
	opts := &runOptions{}
	def := config.Default()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the engine with the enabled built-in plugins",
		Long: `Register the enabled built-in plugins, restore their saved state,
initialize them and drive fixed-rate updates until a plugin requests
exit or the process is interrupted. Plugin state is saved on exit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithDeps(cmd.Context(), opts, cmd, nil)
		},
	}

	cmd.Flags().IntVar(&opts.ticks, "ticks", 0, "stop after this many updates without waiting between them (0 = run in real time)")
	cmd.Flags().BoolVar(&opts.fresh, "fresh", false, "ignore the saved snapshot")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "do not write a snapshot on exit")
	cmd.Flags().Int("tick-rate", def.TickRate, "fixed updates per second")
	cmd.Flags().String("metrics-addr", def.MetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("resources", def.ResourcesDir, "resource directory (default: XDG_DATA_HOME/ember/resources)")
	cmd.Flags().String("snapshot", def.SnapshotPath, "snapshot file (default: XDG_STATE_HOME/ember/snapshot.yaml)")

	return cmd
}

// runWithDeps runs the engine with injectable dependencies.
// If deps is nil, default implementations are used.
func runWithDeps(ctx context.Context, opts *runOptions, cmd *cobra.Command, deps *RunDeps) error {
	if deps == nil {
		deps = &RunDeps{}
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, readiness observability.ReadinessChecker, logger *slog.Logger) ObservabilityServer {
			return observability.NewServer(addr, readiness, observability.WithLogger(logger))
		}
	}
	if deps.ResourcesDirGetter == nil {
		deps.ResourcesDirGetter = xdg.ResourcesDir
	}
	if deps.SnapshotPathGetter == nil {
		deps.SnapshotPathGetter = xdg.SnapshotFile
	}
	if deps.EventSource == nil {
		deps.EventSource = func(context.Context) <-chan window.Event { return nil }
	}
	if deps.SignalContext == nil {
		deps.SignalContext = func(ctx context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		}
	}

	if opts.ticks < 0 {
		return fmt.Errorf("ticks must not be negative, got %d", opts.ticks)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := setupLogging(cmd, cfg)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ctx, stopSignals := deps.SignalContext(ctx)
	defer stopSignals()

	resourcesDir := cfg.ResourcesDir
	if resourcesDir == "" {
		resourcesDir = deps.ResourcesDirGetter()
	}
	resources, err := resource.NewManager(resourcesDir, resource.WithLogger(logger.With("component", "resources")))
	if err != nil {
		return fmt.Errorf("failed to create resource manager: %w", err)
	}

	var active atomic.Int64
	readiness := func() observability.Readiness {
		return observability.Readiness{ActivePlugins: int(active.Load())}
	}
	var metrics *observability.Metrics
	if cfg.MetricsAddr != "" {
		obsServer := deps.ObservabilityServerFactory(cfg.MetricsAddr, readiness, logger.With("component", "observability"))
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return fmt.Errorf("failed to start observability server: %w", err)
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			if stopErr := obsServer.Stop(shutdownCtx); stopErr != nil {
				slog.Warn("failed to stop observability server", "error", stopErr)
			}
		}()
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		metrics = obsServer.Metrics()
	}

	h := host.New(
		host.WithLogger(logger),
		host.WithMetrics(metrics),
		host.WithResources(resources),
		host.WithTickRate(cfg.TickRate),
		host.WithWindow(window.New(cfg.Window.Title,
			uint32(cfg.Window.Width),   //nolint:gosec // validated positive by config
			uint32(cfg.Window.Height)), //nolint:gosec // validated positive by config
		),
	)

	names, err := registerBuiltins(h, cfg)
	if err != nil {
		return fmt.Errorf("failed to register plugins: %w", err)
	}

	snapshotPath := cfg.SnapshotPath
	if snapshotPath == "" {
		snapshotPath = deps.SnapshotPathGetter()
	}
	if !opts.fresh {
		snap, err := persist.ReadFile(snapshotPath)
		if err != nil {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}
		if snap != nil {
			if err := persist.Restore(h, snap); err != nil {
				return fmt.Errorf("failed to restore snapshot: %w", err)
			}
			slog.Info("snapshot restored", "path", snapshotPath, "plugins", len(snap.Plugins))
		}
	}

	var watchers sync.WaitGroup
	if info, statErr := os.Stat(resourcesDir); statErr == nil && info.IsDir() {
		watchers.Add(1)
		go func() {
			defer watchers.Done()
			if err := resources.Watch(ctx); err != nil {
				errutil.LogError(logger, "resource watcher stopped", err)
			}
		}()
	}
	defer func() {
		cancel()
		watchers.Wait()
	}()

	h.Init(pool.None[scene.Scene]())
	active.Store(int64(h.Active()))
	cmd.Printf("Ember started with %d plugin(s): %v\n", h.Active(), names)

	if opts.ticks > 0 {
		n := runTicks(ctx, h, opts.ticks)
		cmd.Printf("Ran %d tick(s)\n", n)
	} else if err := h.Run(ctx, deps.EventSource(ctx)); err != nil {
		active.Store(0)
		return fmt.Errorf("host loop failed: %w", err)
	}
	active.Store(0)

	if opts.noSave {
		return nil
	}
	snap, err := persist.Capture(h)
	if err != nil {
		return fmt.Errorf("failed to capture snapshot: %w", err)
	}
	if err := persist.WriteFile(snapshotPath, snap); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	slog.Info("snapshot saved", "path", snapshotPath, "plugins", len(snap.Plugins))
	return nil
}

// runTicks drives up to n fixed-step updates back to back, stopping early
// when a plugin requests exit or ctx is done, then deinitializes the
// plugins. It returns the number of updates run.
func runTicks(ctx context.Context, h *host.Host, n int) int {
	defer h.Deinit()

	dt := h.Timestep()
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			return i
		}
		if h.Update(dt).IsExit() {
			return i + 1
		}
	}
	return n
}

// monitorServerErrors watches a server error channel and cancels the
// context on the first error.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
