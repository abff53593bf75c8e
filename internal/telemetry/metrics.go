package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the relay's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	upstreamAttempts  *prometheus.CounterVec
	upstreamExhausted *prometheus.CounterVec
	dispatches        *prometheus.CounterVec
	fieldUpdates      *prometheus.CounterVec
}

// NewMetrics registers the relay collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		upstreamAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_upstream_attempts_total",
			Help: "Outbound attempts to the CRM API by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		upstreamExhausted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_upstream_exhausted_total",
			Help: "Outbound operations that failed on every allowed attempt",
		}, []string{"endpoint"}),
		dispatches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_workflow_dispatches_total",
			Help: "Workflow start requests by result",
		}, []string{"result"}),
		fieldUpdates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_field_updates_total",
			Help: "Deal field updates by result",
		}, []string{"result"}),
	}
}

// UpstreamAttempt counts one outbound attempt.
func (m *Metrics) UpstreamAttempt(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.upstreamAttempts.WithLabelValues(endpoint, outcome).Inc()
}

// UpstreamExhausted counts an operation that ran out of attempts.
func (m *Metrics) UpstreamExhausted(endpoint string) {
	if m == nil {
		return
	}
	m.upstreamExhausted.WithLabelValues(endpoint).Inc()
}

// Dispatch counts a workflow dispatch result.
func (m *Metrics) Dispatch(result string) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(result).Inc()
}

// FieldUpdate counts a field update result.
func (m *Metrics) FieldUpdate(result string) {
	if m == nil {
		return
	}
	m.fieldUpdates.WithLabelValues(result).Inc()
}
