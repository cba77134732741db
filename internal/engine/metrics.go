package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Command outcomes recorded in eds_engine_commands_total.
const (
	outcomeOK     = "ok"
	outcomeFailed = "failed"
)

// Metrics are the engine's prometheus collectors.
type Metrics struct {
	commands *prometheus.CounterVec
	duration *prometheus.HistogramVec
	depth    prometheus.Gauge
}

// NewMetrics registers the engine collectors with reg. Passing a fresh
// prometheus.NewRegistry() keeps tests isolated.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		// Labels: command (command name), outcome (ok, failed)
		commands: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eds",
			Subsystem: "engine",
			Name:      "commands_total",
			Help:      "Commands executed by the engine",
		}, []string{"command", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "eds",
			Subsystem: "engine",
			Name:      "command_duration_seconds",
			Help:      "Time spent executing a command",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}, []string{"command"}),
		depth: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "eds",
			Subsystem: "engine",
			Name:      "queue_depth",
			Help:      "Commands waiting in the queue",
		}),
	}
}

func (m *Metrics) observe(name string, seconds float64, failed bool) {
	if m == nil {
		return
	}
	outcome := outcomeOK
	if failed {
		outcome = outcomeFailed
	}
	m.commands.WithLabelValues(name, outcome).Inc()
	m.duration.WithLabelValues(name).Observe(seconds)
}

func (m *Metrics) setDepth(n int) {
	if m == nil {
		return
	}
	m.depth.Set(float64(n))
}
