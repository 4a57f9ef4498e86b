// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package observability exposes the engine's Prometheus metrics and health
// probes over HTTP.
package observability

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"
)

// Probe paths served next to /metrics.
const (
	LivenessPath  = "/healthz/liveness"
	ReadinessPath = "/healthz/readiness"
)

// Readiness is the engine state reported by the readiness probe.
type Readiness struct {
	ActivePlugins int `json:"active_plugins"`
}

// Ready reports whether at least one plugin is active.
func (r Readiness) Ready() bool {
	return r.ActivePlugins > 0
}

// ReadinessChecker reports the current engine state.
type ReadinessChecker func() Readiness

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server serves /metrics and the health probes of one engine process.
type Server struct {
	addr      string
	logger    *slog.Logger
	registry  *prometheus.Registry
	metrics   *Metrics
	readiness ReadinessChecker
	running   atomic.Bool
	started   time.Time

	listener   net.Listener
	httpServer *http.Server
}

// NewServer creates a server that will listen on addr ("host:port"; port 0
// picks a free port). A nil readiness checker reports the engine as ready.
func NewServer(addr string, readiness ReadinessChecker, opts ...Option) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		addr:      addr,
		logger:    slog.Default(),
		registry:  registry,
		metrics:   NewMetrics(registry),
		readiness: readiness,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Metrics returns the host metrics registered on this server.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start binds the listener and serves in the background. Serve failures
// are sent on the returned channel, which is closed once serving ends.
func (s *Server) Start() (<-chan error, error) {
	errb := oops.In("observability").With("addr", s.addr)
	if !s.running.CompareAndSwap(false, true) {
		return nil, errb.Code("OBS_RUNNING").Errorf("observability server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, errb.Code("OBS_LISTEN_FAILED").Wrapf(err, "listen")
	}
	s.listener = listener
	s.started = time.Now()

	srv := &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = srv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("observability server failed", "error", err)
			errCh <- err
		}
	}()

	s.logger.Info("observability server listening", "addr", listener.Addr().String())
	return errCh, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	mux.HandleFunc(LivenessPath, s.handleLiveness)
	mux.HandleFunc(ReadinessPath, s.handleReadiness)
	return mux
}

// Stop shuts the server down. Stopping a server that is not running is a
// no-op.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.In("observability").Code("OBS_SHUTDOWN_FAILED").With("addr", s.Addr()).Wrap(err)
		}
	}
	s.logger.Info("observability server stopped")
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

type livenessBody struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

type readinessBody struct {
	Ready bool `json:"ready"`
	Readiness
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, livenessBody{
		Status:        "alive",
		UptimeSeconds: time.Since(s.started).Seconds(),
	})
}

// handleReadiness answers 200 while plugins are active and 503 otherwise,
// with the engine state in the body.
func (s *Server) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	if s.readiness == nil {
		s.writeJSON(w, http.StatusOK, readinessBody{Ready: true})
		return
	}
	state := s.readiness()
	status := http.StatusOK
	if !state.Ready() {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, readinessBody{Ready: state.Ready(), Readiness: state})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Debug("probe response not written", "error", err)
	}
}
