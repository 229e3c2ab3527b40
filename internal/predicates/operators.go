// internal/predicates/operators.go
package predicates

import (
	"fmt"
	"strings"
	"time"
)

/*
 * Date threshold operators.
 *
 * Boundary checks against a fixed cutoff ("start date before the look-back
 * limit", "placement on or after the aim start"). The cutoff itself is rule
 * configuration; only the comparison lives here.
 *
 * Comparisons run on calendar days in UTC. A nil value never satisfies an
 * operator: absence is "condition not met", never a fault.
 */

// DateOperator selects a boundary comparison.
type DateOperator int

const (
	OpUnspecified DateOperator = iota
	OpBefore
	OpOnOrBefore
	OpAfter
	OpOnOrAfter
	OpOn
)

var operatorNames = map[DateOperator]string{
	OpBefore:     "before",
	OpOnOrBefore: "on_or_before",
	OpAfter:      "after",
	OpOnOrAfter:  "on_or_after",
	OpOn:         "on",
}

// String returns the configuration name of the operator.
func (op DateOperator) String() string {
	if name, ok := operatorNames[op]; ok {
		return name
	}
	return "unspecified"
}

// ParseDateOperator maps a configuration name to an operator.
func ParseDateOperator(s string) (DateOperator, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for op, name := range operatorNames {
		if name == s {
			return op, nil
		}
	}
	return OpUnspecified, fmt.Errorf("unknown date operator %q", s)
}

// CompareDate applies op to value against target.
func CompareDate(op DateOperator, value, target time.Time) bool {
	v, t := Day(value), Day(target)
	switch op {
	case OpBefore:
		return v.Before(t)
	case OpOnOrBefore:
		return !v.After(t)
	case OpAfter:
		return v.After(t)
	case OpOnOrAfter:
		return !v.Before(t)
	case OpOn:
		return v.Equal(t)
	default:
		return false
	}
}

// SameDay reports whether two optional dates are both present and equal,
// or both absent.
func SameDay(a, b *time.Time) bool {
	return Date(a) == Date(b)
}
