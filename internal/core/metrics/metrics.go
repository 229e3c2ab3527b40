// Package metrics provides prometheus instrumentation for validation runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the rule engine and the validation API.
// All methods are nil-safe so callers can run uninstrumented.
type Metrics struct {
	// Violations reported by rule name
	Violations *prometheus.CounterVec

	// Per-rule Validate latency
	RuleDuration *prometheus.HistogramVec

	// Whole-submission validation latency
	RunDuration prometheus.Histogram

	// Submissions by outcome ("clean", "violations", "rejected")
	Submissions *prometheus.CounterVec
}

// New registers all validation metrics with reg.
// Pass prometheus.NewRegistry() in tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Violations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ilrkeeper_violations_total",
			Help: "Total rule violations reported, by rule",
		}, []string{"rule"}),

		RuleDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ilrkeeper_rule_duration_seconds",
			Help:    "Duration of a single rule Validate call",
			Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"rule"}),

		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ilrkeeper_run_duration_seconds",
			Help:    "Duration of a full submission validation run",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),

		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ilrkeeper_submissions_total",
			Help: "Total submissions validated, by outcome",
		}, []string{"outcome"}),
	}
}

// IncViolation records one violation for rule.
func (m *Metrics) IncViolation(rule string) {
	if m != nil {
		m.Violations.WithLabelValues(rule).Inc()
	}
}

// ObserveRuleDuration records one rule's Validate latency.
func (m *Metrics) ObserveRuleDuration(rule string, d time.Duration) {
	if m != nil {
		m.RuleDuration.WithLabelValues(rule).Observe(d.Seconds())
	}
}

// ObserveRunDuration records a full run's latency.
func (m *Metrics) ObserveRunDuration(d time.Duration) {
	if m != nil {
		m.RunDuration.Observe(d.Seconds())
	}
}

// IncSubmission records a submission outcome.
func (m *Metrics) IncSubmission(outcome string) {
	if m != nil {
		m.Submissions.WithLabelValues(outcome).Inc()
	}
}
