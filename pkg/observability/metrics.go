package observability

import (
	"context"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK        = "ok"
	outcomeUndefined = "undefined"
)

// Metrics holds the Prometheus collectors fed by engine hooks.
type Metrics struct {
	Actions      *prometheus.CounterVec
	Computations *prometheus.CounterVec
	Clears       prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abacus_actions_total",
				Help: "Total number of keypad actions applied",
			},
			[]string{"kind"},
		),
		Computations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abacus_computations_total",
				Help: "Total number of arithmetic steps by operator and outcome",
			},
			[]string{"operator", "outcome"},
		),
		Clears: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "abacus_clears_total",
			Help: "Total number of clear actions",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Actions, m.Computations, m.Clears)
	}
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAction: func(ctx context.Context, e *domain.ActionEvent) {
			m.Actions.WithLabelValues(string(e.Action.Kind)).Inc()
		},
		OnCompute: func(ctx context.Context, e *domain.ComputeEvent) {
			outcome := outcomeOK
			if !e.Result.Defined() {
				outcome = outcomeUndefined
			}
			m.Computations.WithLabelValues(e.Operator.Name(), outcome).Inc()
		},
		OnClear: func(ctx context.Context, e *domain.EventBase) {
			m.Clears.Inc()
		},
	}
}
