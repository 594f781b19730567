// Package observability exposes the Prometheus metrics of the routing
// engine. A Metrics value is constructed once at process start and
// passed by reference to the components that record into it.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every collector the engine records into.
type Metrics struct {
	TurnsTotal          *prometheus.CounterVec
	CompletionCalls     *prometheus.CounterVec
	CompletionLatency   *prometheus.HistogramVec
	EscalationsTotal    *prometheus.CounterVec
	RateLimitDenials    prometheus.Counter
	ActiveConversations prometheus.Gauge
}

// New creates the metric set and registers it on the given registerer.
// Pass prometheus.DefaultRegisterer in production; a fresh
// prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TurnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agenthub_turns_total",
			Help: "Executor steps taken, by responder node.",
		}, []string{"node"}),
		CompletionCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agenthub_completion_calls_total",
			Help: "Completion service calls, by responder node and status.",
		}, []string{"node", "status"}),
		CompletionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agenthub_completion_latency_seconds",
			Help:    "Completion service call latency, by responder node.",
			Buckets: prometheus.DefBuckets,
		}, []string{"node"}),
		EscalationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agenthub_escalations_total",
			Help: "Forced escalations to the human proxy, by trigger.",
		}, []string{"trigger"}),
		RateLimitDenials: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agenthub_rate_limit_denials_total",
			Help: "Turns denied by the rate governor.",
		}),
		ActiveConversations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "agenthub_active_conversations",
			Help: "Conversations currently persisted in the state store.",
		}),
	}
	reg.MustRegister(
		m.TurnsTotal,
		m.CompletionCalls,
		m.CompletionLatency,
		m.EscalationsTotal,
		m.RateLimitDenials,
		m.ActiveConversations,
	)
	return m
}

// NewNop creates an unregistered metric set for callers that don't care
// about observability (mostly tests).
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

// ObserveCompletion records one completion call outcome.
func (m *Metrics) ObserveCompletion(node string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.CompletionCalls.WithLabelValues(node, status).Inc()
	m.CompletionLatency.WithLabelValues(node).Observe(duration.Seconds())
}
