package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the CardEx service.
type Metrics struct {
	// Policy decisions by action and outcome
	Decisions *prometheus.CounterVec

	// Access gate results by state
	AccessStates *prometheus.CounterVec

	// Backend call latency and failures by operation
	BackendLatency *prometheus.HistogramVec
	BackendErrors  *prometheus.CounterVec
}

// New registers the CardEx metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cardex_policy_decisions_total",
			Help: "Total lifecycle and admission decisions by action and outcome",
		}, []string{"action", "outcome"}),

		AccessStates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cardex_access_states_total",
			Help: "Total access gate evaluations by resulting state",
		}, []string{"state"}),

		BackendLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cardex_backend_duration_seconds",
			Help:    "Duration of card backend calls by operation",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		BackendErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cardex_backend_errors_total",
			Help: "Total failed card backend calls by operation",
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementDecision(action, outcome string) {
	if m != nil {
		m.Decisions.WithLabelValues(action, outcome).Inc()
	}
}

func (m *Metrics) IncrementAccessState(state string) {
	if m != nil {
		m.AccessStates.WithLabelValues(state).Inc()
	}
}

// ObserveBackendCall records one backend call; failed calls also count as errors.
func (m *Metrics) ObserveBackendCall(operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.BackendLatency.WithLabelValues(operation).Observe(d.Seconds())
	if err != nil {
		m.BackendErrors.WithLabelValues(operation).Inc()
	}
}
