package observer

import (
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/audit"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "workforce"

// Metrics is a prometheus.Collector counting audit events.
type Metrics struct {
	events        *prometheus.CounterVec
	failures      *prometheus.CounterVec
	lastEventTime *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "audit_events_total",
				Help:      "The number of audit events recorded, by action.",
			}, []string{"topic", "action"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "audit_failures_total",
				Help:      "The number of failure events recorded, by action.",
			}, []string{"action"},
		),
		lastEventTime: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "audit_last_event_timestamp_seconds",
				Help:      "Unix time of the most recent event per topic.",
			}, []string{"topic"},
		),
	}
}

func (m *Metrics) Record(event audit.Event) {
	topic := Topic(event.Action)
	m.events.WithLabelValues(topic, string(event.Action)).Inc()
	if isFailure(event.Action) {
		m.failures.WithLabelValues(string(event.Action)).Inc()
	}
	m.lastEventTime.WithLabelValues(topic).Set(float64(event.OccurredAt.Unix()))
}

// Describe is part of the prometheus.Collector interface.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.events.Describe(ch)
	m.failures.Describe(ch)
	m.lastEventTime.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.events.Collect(ch)
	m.failures.Collect(ch)
	m.lastEventTime.Collect(ch)
}
