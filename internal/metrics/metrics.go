// Package metrics exposes roulette's Prometheus metrics: selections served,
// refresh outcomes and the size and age of the current image map.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "roulette"

// Metrics owns a private registry so tests can build as many as they like.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry   *prometheus.Registry
	selections *prometheus.CounterVec
	refreshes  *prometheus.CounterVec
}

// New creates a Metrics with Go runtime and process collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_total",
			Help:      "Image selections by mode and result (found or empty).",
		}, []string{"mode", "result"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_total",
			Help:      "Image map refresh attempts by source and outcome.",
		}, []string{"source", "outcome"}),
	}
	reg.MustRegister(
		m.selections,
		m.refreshes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveSelection counts one selection attempt.
func (m *Metrics) ObserveSelection(mode string, found bool) {
	if m == nil {
		return
	}
	result := "found"
	if !found {
		result = "empty"
	}
	m.selections.WithLabelValues(mode, result).Inc()
}

// ObserveRefresh counts one refresh attempt from source ("sync" or "watch").
func (m *Metrics) ObserveRefresh(source, outcome string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(source, outcome).Inc()
}

// TrackImageMap registers gauges that read the current key count and
// install time on every scrape.
func (m *Metrics) TrackImageMap(keys func() int, updatedAt func() time.Time) {
	if m == nil {
		return
	}
	m.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "image_map_keys",
			Help:      "Number of keys in the current image map.",
		}, func() float64 { return float64(keys()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "image_map_updated_timestamp_seconds",
			Help:      "Unix time the current image map was installed.",
		}, func() float64 { return float64(updatedAt().UnixNano()) / 1e9 }),
	)
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
