package rules

import "errors"

var (
	// ErrInvalidConfig indicates a rule was built with unusable configuration.
	ErrInvalidConfig = errors.New("invalid rule configuration")

	// ErrRulePanic indicates a rule panicked during Validate; the run is aborted.
	ErrRulePanic = errors.New("rule panicked")
)
