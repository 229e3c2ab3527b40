package validation

import "fmt"

// Rule is the identity every validation rule exposes.
// RuleName is stable and is the rule identifier on every violation.
type Rule interface {
	RuleName() string
}

// ValidationRule validates one scope of the record graph.
//
// Validate must accept nil and empty input without reporting or panicking.
// Within one call, violations are reported in traversal order.
type ValidationRule[T any] interface {
	Rule
	Validate(objectToValidate T)
}

// RuleBase carries a rule's immutable name and its sink.
// Concrete rules embed it; it holds no mutable state.
type RuleBase struct {
	name    string
	handler ErrorHandler
}

// NewRuleBase validates construction inputs. A nil handler is a
// construction fault: a rule must never silently drop its reports.
func NewRuleBase(name string, handler ErrorHandler) (RuleBase, error) {
	if name == "" {
		return RuleBase{}, ErrEmptyRuleName
	}
	if handler == nil {
		return RuleBase{}, fmt.Errorf("%s: %w", name, ErrNilErrorHandler)
	}
	return RuleBase{name: name, handler: handler}, nil
}

// RuleName returns the rule identifier.
func (b RuleBase) RuleName() string {
	return b.name
}

// HandleValidationError reports one violation under this rule's name.
func (b RuleBase) HandleValidationError(learnRefNumber string, aimSequenceNumber *int64, params []ErrorMessageParameter) {
	b.handler.Handle(b.name, learnRefNumber, aimSequenceNumber, params)
}

// BuildErrorMessageParameter delegates to the sink's parameter builder.
func (b RuleBase) BuildErrorMessageParameter(name string, value any) ErrorMessageParameter {
	return b.handler.BuildErrorMessageParameter(name, value)
}
