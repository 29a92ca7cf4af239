package observability

import (
	"context"

	"github.com/aretw0/tendero/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the sales flow.
type Metrics struct {
	Transitions    *prometheus.CounterVec
	Rejections     *prometheus.CounterVec
	Commits        *prometheus.CounterVec
	CommitDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tendero_transitions_total",
				Help: "Accepted steps of the conversation, by source and target state.",
			},
			[]string{"from", "to"},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tendero_rejected_inputs_total",
				Help: "Inputs that failed validation, by state.",
			},
			[]string{"state"},
		),
		Commits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tendero_commits_total",
				Help: "Ledger commits, by result (ok or error).",
			},
			[]string{"result"},
		),
		CommitDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tendero_commit_duration_seconds",
				Help:    "Duration of ledger commits.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	reg.MustRegister(m.Transitions, m.Rejections, m.Commits, m.CommitDuration)
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(string(e.From), string(e.To)).Inc()
		},
		OnRejected: func(ctx context.Context, e *domain.RejectionEvent) {
			m.Rejections.WithLabelValues(string(e.State)).Inc()
		},
		OnCommit: func(ctx context.Context, e *domain.CommitEvent) {
			result := "ok"
			if e.Err != nil {
				result = "error"
			}
			m.Commits.WithLabelValues(result).Inc()
			m.CommitDuration.Observe(e.Duration.Seconds())
		},
	}
}
