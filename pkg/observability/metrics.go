package observability

import (
	"context"

	"github.com/aretw0/stockcheck/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Answer outcomes used as the "outcome" label.
const (
	OutcomeStored  = "stored"
	OutcomeSkipped = "skipped"
)

// Metrics holds the collectors fed by lifecycle hooks.
type Metrics struct {
	Prompts   *prometheus.CounterVec
	Answers   *prometheus.CounterVec
	Reports   prometheus.Counter
	Deficient *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Prompts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcheck_prompts_total",
				Help: "Total number of item prompts sent",
			},
			[]string{"item"},
		),
		Answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcheck_answers_total",
				Help: "Total number of answers applied, by outcome",
			},
			[]string{"outcome"},
		),
		Reports: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "stockcheck_reports_total",
				Help: "Total number of completed collection runs",
			},
		),
		Deficient: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockcheck_item_deficient",
				Help: "1 if the item was flagged as low in the last report, 0 otherwise",
			},
			[]string{"item"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Prompts, m.Answers, m.Reports, m.Deficient)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPrompt: func(_ context.Context, e *domain.PromptEvent) {
			m.Prompts.WithLabelValues(e.Item).Inc()
		},
		OnAnswer: func(_ context.Context, e *domain.AnswerEvent) {
			outcome := OutcomeStored
			if e.Skipped {
				outcome = OutcomeSkipped
			}
			m.Answers.WithLabelValues(outcome).Inc()
		},
		OnReport: func(_ context.Context, e *domain.ReportEvent) {
			m.Reports.Inc()
			// Only the last report counts.
			m.Deficient.Reset()
			for _, name := range e.Deficient {
				m.Deficient.WithLabelValues(name).Set(1)
			}
		},
	}
}
