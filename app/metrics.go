package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the counters collected by the host.
type Metrics struct {
	registry *prometheus.Registry

	delivered  *prometheus.CounterVec // Successful messages by path
	failed     *prometheus.CounterVec // Failed messages by path
	dispatched *prometheus.CounterVec // Dispatched instructions by kind
	commits    prometheus.Counter
}

// NewMetrics returns a metric set registered in its own registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		registry:  registry,
		delivered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gringotts",
				Name:      "messages_delivered_total",
				Help:      "number of successfully delivered messages",
			},
			[]string{"path"},
		),
		failed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gringotts",
				Name:      "messages_failed_total",
				Help:      "number of messages rejected by a handler",
			},
			[]string{"path"},
		),
		dispatched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gringotts",
				Name:      "instructions_dispatched_total",
				Help:      "number of executed follow-up instructions",
			},
			[]string{"kind"},
		),
		commits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "gringotts",
			Name:      "commits_total",
			Help:      "number of committed blocks",
		}),
	}
}

// Gatherer returns the registry holding all host metrics.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteToTextfile writes all metrics in the prometheus text format to
// given file.
func (m *Metrics) WriteToTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, m.registry)
}

func (m *Metrics) observeMsg(path string, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.failed.WithLabelValues(path).Inc()
		return
	}
	m.delivered.WithLabelValues(path).Inc()
}

func (m *Metrics) observeDispatch(kind string) {
	if m == nil {
		return
	}
	m.dispatched.WithLabelValues(kind).Inc()
}

func (m *Metrics) observeCommit() {
	if m == nil {
		return
	}
	m.commits.Inc()
}
