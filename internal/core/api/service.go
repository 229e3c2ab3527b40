// Package api implements the gRPC validation API.
package api

import (
	"context"
	"errors"
	"log/slog"

	"github.com/solatis/ilrkeeper/internal/core/config"
	"github.com/solatis/ilrkeeper/internal/core/metrics"
	validationv1 "github.com/solatis/ilrkeeper/internal/protobuf/ilrkeeper/validation/v1"
	"github.com/solatis/ilrkeeper/internal/refdata"
	"github.com/solatis/ilrkeeper/internal/rules"
)

// ReferenceData loads the reference data visible to one provider.
// Implemented by *refdata.Loader.
type ReferenceData interface {
	Load(ctx context.Context, ukprn int) (*refdata.Snapshot, error)
}

// ValidationAPIService implements validationv1.ValidationAPIServer.
// Thin orchestration over decoding, reference data and the rules package.
type ValidationAPIService struct {
	validationv1.UnimplementedValidationAPIServer

	engine   *rules.Engine
	rulesCfg rules.Config
	refdata  ReferenceData
	cfg      *config.ValidationAPIConfig
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// ServiceOption configures a ValidationAPIService.
type ServiceOption func(*ValidationAPIService)

// WithReferenceData enables the reference data rules.
func WithReferenceData(r ReferenceData) ServiceOption {
	return func(s *ValidationAPIService) { s.refdata = r }
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *ValidationAPIService) { s.logger = logger }
}

// WithMetrics records submission outcomes and violation counts.
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *ValidationAPIService) { s.metrics = m }
}

// NewValidationAPIService creates the service.
func NewValidationAPIService(engine *rules.Engine, rulesCfg rules.Config, cfg *config.ValidationAPIConfig, opts ...ServiceOption) (*ValidationAPIService, error) {
	if engine == nil {
		return nil, errors.New("engine cannot be nil")
	}
	if cfg == nil {
		return nil, errors.New("cfg cannot be nil")
	}

	s := &ValidationAPIService{
		engine:   engine,
		rulesCfg: rulesCfg,
		cfg:      cfg,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// validator returns a validator bound to one provider's reference data.
func (s *ValidationAPIService) validator(provider refdata.Provider) *rules.Validator {
	return rules.NewValidator(s.engine, provider, s.rulesCfg, s.logger, s.metrics)
}
