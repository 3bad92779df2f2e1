package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aretw0/aura/pkg/completion"
	"github.com/aretw0/aura/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeSuccess   = "success"
	OutcomeError     = "error"
	OutcomeAbandoned = "abandoned"
)

// Metrics groups the Prometheus collectors of the agent.
type Metrics struct {
	Runs               *prometheus.CounterVec
	NodeDuration       *prometheus.HistogramVec
	CompletionDuration *prometheus.HistogramVec
	Frames             *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg uses a fresh private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aura_runs_total",
				Help: "Total number of workflow runs",
			},
			[]string{"mode", "outcome"},
		),
		NodeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aura_node_duration_seconds",
				Help:    "Duration of node executions",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"node", "outcome"},
		),
		CompletionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aura_completion_duration_seconds",
				Help:    "Duration of completion service calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		Frames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aura_frames_total",
				Help: "Total number of response frames sent",
			},
			[]string{"type"},
		),
		gatherer: reg,
	}

	reg.MustRegister(m.Runs, m.NodeDuration, m.CompletionDuration, m.Frames)
	return m
}

// Hooks returns lifecycle hooks that record run and node metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunEnd: func(_ context.Context, e *domain.RunEvent) {
			m.Runs.WithLabelValues(e.Mode, outcome(e.Err)).Inc()
		},
		OnNodeLeave: func(_ context.Context, e *domain.NodeEvent) {
			m.NodeDuration.WithLabelValues(e.Node, outcome(e.Err)).Observe(e.Duration.Seconds())
		},
	}
}

// CompletionObserver returns a completion.Observer feeding the completion histogram.
func (m *Metrics) CompletionObserver() completion.Observer {
	return func(_ context.Context, d time.Duration, err error) {
		m.CompletionDuration.WithLabelValues(outcome(err)).Observe(d.Seconds())
	}
}

// ObserveFrame counts one frame sent to a client.
func (m *Metrics) ObserveFrame(frame domain.AgentResponse) {
	m.Frames.WithLabelValues(string(frame.Type)).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if errors.Is(err, domain.ErrRunAbandoned) {
		return OutcomeAbandoned
	}
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
