package server

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
)

// Metrics holds the collectors of one server. Each instance owns its registry
// so several servers can live in one process.
type Metrics struct {
	registry     *prometheus.Registry
	Calculations *prometheus.CounterVec
	FieldErrors  *prometheus.CounterVec
	Contacts     prometheus.Gauge
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Calculations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: config.MetricCalculations,
			Help: config.MetricCalculationsHelp,
		}, []string{config.LabelOutcome}),
		FieldErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: config.MetricFieldErrors,
			Help: config.MetricFieldErrorsHelp,
		}, []string{config.LabelField, config.LabelCode}),
		Contacts: factory.NewGauge(prometheus.GaugeOpts{
			Name: config.MetricContacts,
			Help: config.MetricContactsHelp,
		}),
	}
}

// ObserveCalculation counts one Calculate call by outcome, and each rejected field.
func (m *Metrics) ObserveCalculation(err error) {
	if m == nil {
		return
	}
	if err == nil {
		m.Calculations.WithLabelValues(config.OutcomeOK).Inc()
		return
	}
	m.Calculations.WithLabelValues(config.OutcomeInvalid).Inc()

	var verrs engine.ValidationErrors
	if errors.As(err, &verrs) {
		for field, fe := range verrs {
			m.FieldErrors.WithLabelValues(string(field), string(fe.Code)).Inc()
		}
	}
}

// SetContacts records the size of the last published roster.
func (m *Metrics) SetContacts(n int) {
	if m == nil {
		return
	}
	m.Contacts.Set(float64(n))
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
