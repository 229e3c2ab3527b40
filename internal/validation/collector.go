package validation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/solatis/ilrkeeper/internal/core/metrics"
	"github.com/solatis/ilrkeeper/internal/types"
)

/*
 * In-memory, concurrency-safe ErrorHandler.
 *
 * Rules running on separate goroutines append under one mutex. Order across
 * rules is whatever interleaving the scheduler produced; order within one
 * rule's Validate call is preserved because a single goroutine appends it.
 *
 * The collector is the only shared mutable state in a validation run. It is
 * created per run and discarded with the run.
 */

// Severity classifies a violation for the reporting layer.
type Severity string

const (
	SeverityError   Severity = "E"
	SeverityWarning Severity = "W"
)

// Violation is one reported rule failure.
type Violation struct {
	RunID             types.RunID             `json:"run_id"`
	RuleName          string                  `json:"rule_name"`
	Severity          Severity                `json:"severity"`
	LearnRefNumber    string                  `json:"learn_ref_number,omitempty"`
	AimSequenceNumber *int64                  `json:"aim_sequence_number,omitempty"`
	Parameters        []ErrorMessageParameter `json:"parameters,omitempty"`
}

// Collector accumulates violations for one run.
type Collector struct {
	runID      types.RunID
	logger     *slog.Logger
	metrics    *metrics.Metrics
	severityOf func(ruleName string) Severity

	mu         sync.Mutex
	violations []Violation
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithLogger logs every violation at debug level.
func WithLogger(logger *slog.Logger) CollectorOption {
	return func(c *Collector) { c.logger = logger }
}

// WithMetrics counts violations per rule.
func WithMetrics(m *metrics.Metrics) CollectorOption {
	return func(c *Collector) { c.metrics = m }
}

// WithSeverities resolves a rule's severity; unknown rules are errors.
func WithSeverities(severityOf func(ruleName string) Severity) CollectorOption {
	return func(c *Collector) { c.severityOf = severityOf }
}

// NewCollector creates an empty collector for runID.
func NewCollector(runID types.RunID, opts ...CollectorOption) *Collector {
	c := &Collector{runID: runID}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Handle records one violation. Parameters are copied.
func (c *Collector) Handle(ruleName, learnRefNumber string, aimSequenceNumber *int64, params []ErrorMessageParameter) {
	v := Violation{
		RunID:          c.runID,
		RuleName:       ruleName,
		Severity:       SeverityError,
		LearnRefNumber: learnRefNumber,
	}
	if aimSequenceNumber != nil {
		n := *aimSequenceNumber
		v.AimSequenceNumber = &n
	}
	if len(params) > 0 {
		v.Parameters = append([]ErrorMessageParameter(nil), params...)
	}
	if c.severityOf != nil {
		if s := c.severityOf(ruleName); s != "" {
			v.Severity = s
		}
	}

	c.mu.Lock()
	c.violations = append(c.violations, v)
	c.mu.Unlock()

	c.metrics.IncViolation(ruleName)
	if c.logger != nil {
		c.logger.LogAttrs(context.Background(), slog.LevelDebug, "rule violation",
			slog.String("run_id", string(c.runID)),
			slog.String("rule", ruleName),
			slog.String("learn_ref_number", learnRefNumber),
		)
	}
}

// BuildErrorMessageParameter pairs a name with a value.
func (c *Collector) BuildErrorMessageParameter(name string, value any) ErrorMessageParameter {
	return BuildErrorMessageParameter(name, value)
}

// RunID returns the run this collector belongs to.
func (c *Collector) RunID() types.RunID {
	return c.runID
}

// Len returns the number of violations recorded so far.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.violations)
}

// Violations returns a copy of the recorded violations in report order.
func (c *Collector) Violations() []Violation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Violation(nil), c.violations...)
}

