// Package metrics exposes pool and transport counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/lox/squares/internal/pool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "squares"

// Recorder owns a private registry and the instruments registered on it.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry    *prometheus.Registry
	commands    *prometheus.CounterVec
	sold        prometheus.Gauge
	pot         prometheus.Gauge
	resolved    prometheus.Gauge
	connections prometheus.Gauge
}

// NewRecorder creates a recorder with its own registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Pool commands by command and result code.",
		}, []string{"command", "result"}),
		sold: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "squares_sold",
			Help:      "Squares sold in the current pool.",
		}),
		pot: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pot",
			Help:      "Current pot in whole currency units.",
		}),
		resolved: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "quarters_resolved",
			Help:      "Quarters with a winning square.",
		}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_connections",
			Help:      "Open websocket connections.",
		}),
	}
	r.registry.MustRegister(r.commands, r.sold, r.pot, r.resolved, r.connections)
	return r
}

// RecordCommand counts one command. Successful commands are labelled "ok",
// failures by their error code.
func (r *Recorder) RecordCommand(command string, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = pool.Code(err)
	}
	r.commands.WithLabelValues(command, result).Inc()
}

// ObservePool updates the pool gauges from s
func (r *Recorder) ObservePool(s pool.Snapshot) {
	if r == nil {
		return
	}
	r.sold.Set(float64(s.Sold))
	r.pot.Set(float64(s.Pot))
	r.resolved.Set(float64(len(s.Winners)))
}

// ConnectionOpened tracks a new websocket connection
func (r *Recorder) ConnectionOpened() {
	if r == nil {
		return
	}
	r.connections.Inc()
}

// ConnectionClosed tracks a websocket connection going away
func (r *Recorder) ConnectionClosed() {
	if r == nil {
		return
	}
	r.connections.Dec()
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
