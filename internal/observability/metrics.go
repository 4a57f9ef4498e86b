// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the plugin host's Prometheus metrics. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	TicksTotal        prometheus.Counter
	UpdateSeconds     *prometheus.HistogramVec
	OSEventsTotal     *prometheus.CounterVec
	ExitRequestsTotal *prometheus.CounterVec
	TransitionsTotal  *prometheus.CounterVec
	PluginsActive     prometheus.Gauge
}

// NewMetrics creates and registers the host metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ember_plugin_ticks_total",
			Help: "Total number of fixed update ticks driven by the host",
		}),
		UpdateSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ember_plugin_update_seconds",
			Help:    "Time spent in a plugin's update callback",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.004, 0.008, 0.016, 0.033, 0.1},
		}, []string{"plugin"}),
		OSEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ember_plugin_os_events_total",
			Help: "Total number of window events delivered to plugins by kind",
		}, []string{"kind"}),
		ExitRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ember_plugin_exit_requests_total",
			Help: "Total number of exit requests by plugin",
		}, []string{"plugin"}),
		TransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ember_plugin_transitions_total",
			Help: "Total number of plugin lifecycle transitions",
		}, []string{"plugin", "transition"}),
		PluginsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ember_plugins_active",
			Help: "Number of currently active plugins",
		}),
	}

	reg.MustRegister(m.TicksTotal, m.UpdateSeconds, m.OSEventsTotal, m.ExitRequestsTotal, m.TransitionsTotal, m.PluginsActive)
	return m
}

// Tick records one host tick.
func (m *Metrics) Tick() {
	if m == nil {
		return
	}
	m.TicksTotal.Inc()
}

// ObserveUpdate records the duration of one plugin update.
func (m *Metrics) ObserveUpdate(plugin string, d time.Duration) {
	if m == nil {
		return
	}
	m.UpdateSeconds.WithLabelValues(plugin).Observe(d.Seconds())
}

// OSEvent records a delivered window event.
func (m *Metrics) OSEvent(kind string) {
	if m == nil {
		return
	}
	m.OSEventsTotal.WithLabelValues(kind).Inc()
}

// ExitRequested records an exit request from plugin.
func (m *Metrics) ExitRequested(plugin string) {
	if m == nil {
		return
	}
	m.ExitRequestsTotal.WithLabelValues(plugin).Inc()
}

// Transition records a lifecycle transition such as "register" or "init".
func (m *Metrics) Transition(plugin, transition string) {
	if m == nil {
		return
	}
	m.TransitionsTotal.WithLabelValues(plugin, transition).Inc()
}

// SetActive sets the active plugin gauge.
func (m *Metrics) SetActive(n int) {
	if m == nil {
		return
	}
	m.PluginsActive.Set(float64(n))
}
