package validation

import "errors"

// Construction faults. Violations are never errors; they go to the ErrorHandler.
var (
	// ErrNilErrorHandler indicates a rule was constructed without a sink.
	ErrNilErrorHandler = errors.New("error handler cannot be nil")

	// ErrEmptyRuleName indicates a rule was constructed without an identifier.
	ErrEmptyRuleName = errors.New("rule name cannot be empty")
)
