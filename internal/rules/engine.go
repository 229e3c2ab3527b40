package rules

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/solatis/ilrkeeper/internal/core/metrics"
	"github.com/solatis/ilrkeeper/internal/types"
)

/*
 * Engine runs a catalog over one submission.
 *
 * Each message rule is one task; each learner rule is one task visiting
 * every learner in input order, so a rule's reports stay in traversal order
 * even when rules run in parallel. Tasks share nothing but the handler the
 * catalog was built with.
 *
 * Cancellation is checked between Validate calls, never inside one. A panic
 * inside a rule aborts the run with ErrRulePanic.
 */

const tracerName = "github.com/solatis/ilrkeeper/internal/rules"

// Engine executes rule catalogs.
type Engine struct {
	workers int
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithWorkers bounds the number of rules running at once. n < 1 means GOMAXPROCS.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records per-rule latency.
func WithMetrics(m *metrics.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) EngineOption {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// NewEngine creates a rules engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.Default(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Workers returns the concurrency limit.
func (e *Engine) Workers() int {
	return e.workers
}

// Run executes every rule in catalog against message and waits for all of
// them. A nil message or catalog is a no-op.
func (e *Engine) Run(ctx context.Context, catalog *Catalog, message *types.Message) error {
	if catalog == nil || message == nil {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for _, rule := range catalog.MessageRules {
		g.Go(func() error {
			return e.invoke(ctx, rule.RuleName(), func(ctx context.Context) error {
				rule.Validate(message)
				return nil
			})
		})
	}

	for _, rule := range catalog.LearnerRules {
		g.Go(func() error {
			return e.invoke(ctx, rule.RuleName(), func(ctx context.Context) error {
				for _, learner := range message.Learners {
					if err := ctx.Err(); err != nil {
						return err
					}
					rule.Validate(learner)
				}
				return nil
			})
		})
	}

	return g.Wait()
}

// invoke runs fn inside a span, records its latency and converts a panic
// into an error.
func (e *Engine) invoke(ctx context.Context, ruleName string, fn func(context.Context) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, span := e.tracer.Start(ctx, "rule "+ruleName,
		trace.WithAttributes(attribute.String("ilr.rule", ruleName)))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrRulePanic, ruleName, r)
			e.logger.Error("rule panicked", "rule", ruleName, "panic", r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		e.metrics.ObserveRuleDuration(ruleName, time.Since(start))
		span.End()
	}()

	return fn(ctx)
}
