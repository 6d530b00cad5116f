// Package monitoring exposes Prometheus metrics for the tracing service.
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors. Each Metrics instance carries its
// own registry so independent servers (and tests) never collide.
type Metrics struct {
	registry *prometheus.Registry

	SessionsTotal   *prometheus.CounterVec
	SessionDuration prometheus.Histogram
	EventsEmitted   prometheus.Counter
	WSConnections   prometheus.Gauge
}

// NewMetrics creates a metrics collector with a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		SessionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visualizer_sessions_total",
				Help: "Traced sessions by terminal status",
			},
			[]string{"status"},
		),
		SessionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "visualizer_session_duration_seconds",
				Help:    "Wall-clock duration of traced sessions",
				Buckets: []float64{.01, .05, .1, .5, 1, 2.5, 5, 7.5},
			},
		),
		EventsEmitted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "visualizer_events_emitted_total",
				Help: "Trace events posted across all sessions",
			},
		),
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "visualizer_ws_connections",
				Help: "Open websocket connections",
			},
		),
	}
}

// ObserveSession records one finished session.
func (m *Metrics) ObserveSession(status string, events int, duration time.Duration) {
	m.SessionsTotal.WithLabelValues(status).Inc()
	m.SessionDuration.Observe(duration.Seconds())
	m.EventsEmitted.Add(float64(events))
}

// Handler serves the /metrics endpoint for this collector's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
