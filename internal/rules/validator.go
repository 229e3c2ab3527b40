package rules

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/solatis/ilrkeeper/internal/core/metrics"
	"github.com/solatis/ilrkeeper/internal/refdata"
	"github.com/solatis/ilrkeeper/internal/types"
	"github.com/solatis/ilrkeeper/internal/validation"
)

// Submission outcomes recorded in metrics.
const (
	OutcomeClean      = "clean"
	OutcomeViolations = "violations"
	OutcomeRejected   = "rejected"
)

// Report is the result of validating one submission.
type Report struct {
	RunID      types.RunID            `json:"run_id"`
	UKPRN      int                    `json:"ukprn"`
	Learners   int                    `json:"learners"`
	Violations []validation.Violation `json:"violations"`
	Duration   time.Duration          `json:"duration_ns"`
}

// Errors counts violations with error severity.
func (r *Report) Errors() int {
	n := 0
	for _, v := range r.Violations {
		if v.Severity == validation.SeverityError {
			n++
		}
	}
	return n
}

// Warnings counts violations with warning severity.
func (r *Report) Warnings() int {
	return len(r.Violations) - r.Errors()
}

// Validator builds a fresh collector and catalog per submission and runs it.
// Safe for concurrent use: nothing is shared between runs except the
// read-only reference data.
type Validator struct {
	engine   *Engine
	provider refdata.Provider
	cfg      Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewValidator creates a validator. provider may be nil, in which case the
// reference data rules are not run.
func NewValidator(engine *Engine, provider refdata.Provider, cfg Config, logger *slog.Logger, m *metrics.Metrics) *Validator {
	if engine == nil {
		engine = NewEngine(WithLogger(logger), WithMetrics(m))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		engine:   engine,
		provider: provider,
		cfg:      cfg,
		logger:   logger,
		metrics:  m,
	}
}

// RuleNames returns the names of the rules a run would execute.
func (v *Validator) RuleNames() ([]string, error) {
	catalog, err := NewCatalog(validation.NewCollector(""), v.provider, v.cfg)
	if err != nil {
		return nil, err
	}
	return catalog.RuleNames(), nil
}

// Validate runs the catalog over message.
func (v *Validator) Validate(ctx context.Context, message *types.Message) (*Report, error) {
	runID := types.NewRunID()
	collector := validation.NewCollector(runID,
		validation.WithLogger(v.logger),
		validation.WithMetrics(v.metrics),
		validation.WithSeverities(SeverityOf),
	)

	catalog, err := NewCatalog(collector, v.provider, v.cfg)
	if err != nil {
		v.metrics.IncSubmission(OutcomeRejected)
		return nil, fmt.Errorf("failed to build rule catalog: %w", err)
	}

	start := time.Now()
	if err := v.engine.Run(ctx, catalog, message); err != nil {
		v.metrics.IncSubmission(OutcomeRejected)
		return nil, fmt.Errorf("validation run %s failed: %w", runID, err)
	}
	elapsed := time.Since(start)
	v.metrics.ObserveRunDuration(elapsed)

	report := &Report{
		RunID:      runID,
		UKPRN:      message.UKPRN(),
		Violations: collector.Violations(),
		Duration:   elapsed,
	}
	if message != nil {
		report.Learners = len(message.Learners)
	}

	if len(report.Violations) == 0 {
		v.metrics.IncSubmission(OutcomeClean)
	} else {
		v.metrics.IncSubmission(OutcomeViolations)
	}

	v.logger.Info("validation complete",
		"run_id", runID,
		"ukprn", report.UKPRN,
		"learners", report.Learners,
		"rules", catalog.Len(),
		"violations", len(report.Violations),
		"duration", elapsed,
	)
	return report, nil
}
