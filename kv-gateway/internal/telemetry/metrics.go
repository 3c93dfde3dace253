// Package telemetry exposes Prometheus counters for validation and probe
// outcomes.
package telemetry

import (
	"github.com/jonesrussell/north-cloud/infrastructure/health"
	"github.com/jonesrussell/north-cloud/kv-gateway/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	noLabel         = "none" // reason or cause on success
)

// Metrics counts domain outcomes. A nil *Metrics records nothing.
type Metrics struct {
	validations *prometheus.CounterVec
	probes      *prometheus.CounterVec
}

// New registers the counters on reg under namespace.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		validations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Key/value pairs validated, by outcome and rejection reason",
		}, []string{"outcome", "reason"}),
		probes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "health_probes_total",
			Help:      "Dependency health probes, by status and failure cause",
		}, []string{"status", "cause"}),
	}
}

// ObserveValidation counts one validation outcome.
func (m *Metrics) ObserveValidation(outcome domain.ValidationOutcome) {
	if m == nil {
		return
	}
	switch o := outcome.(type) {
	case domain.Accepted:
		m.validations.WithLabelValues(outcomeAccepted, noLabel).Inc()
	case domain.Rejected:
		m.validations.WithLabelValues(outcomeRejected, string(o.Reason)).Inc()
	}
}

// ObserveProbe counts one probe result.
func (m *Metrics) ObserveProbe(status health.Status) {
	if m == nil {
		return
	}
	switch s := status.(type) {
	case health.Healthy:
		m.probes.WithLabelValues(statusHealthy, noLabel).Inc()
	case health.Unhealthy:
		m.probes.WithLabelValues(statusUnhealthy, s.Cause).Inc()
	}
}
