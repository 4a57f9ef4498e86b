// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package main

import (
	"context"
	"log/slog"

	"github.com/emberforge/ember/internal/observability"
	"github.com/emberforge/ember/pkg/window"
)

// RunDeps contains injectable dependencies for the run command.
// All fields with nil values will use their default implementations.
type RunDeps struct {
	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, readiness observability.ReadinessChecker, logger *slog.Logger) ObservabilityServer

	// ResourcesDirGetter returns the resource directory used when the
	// configuration does not name one.
	// Default: xdg.ResourcesDir
	ResourcesDirGetter func() string

	// SnapshotPathGetter returns the snapshot file used when the
	// configuration does not name one.
	// Default: xdg.SnapshotFile
	SnapshotPathGetter func() string

	// EventSource supplies platform events to the host loop. A nil channel
	// means no events.
	// Default: no events
	EventSource func(ctx context.Context) <-chan window.Event

	// SignalContext derives a context cancelled on shutdown signals.
	// Default: signal.NotifyContext with SIGINT and SIGTERM
	SignalContext func(ctx context.Context) (context.Context, context.CancelFunc)
}

// ObservabilityServer interface wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}
