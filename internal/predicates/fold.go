// internal/predicates/fold.go
package predicates

import (
	"strings"
	"time"
	"unicode"
)

/*
 * Case-insensitive and null-safe key projection.
 *
 * Code and type tokens (LearnRefNumber, FAM types, OutType, ...) compare
 * with ordinal case-insensitive equality: rune by rune, through the simple
 * one-to-one uppercase mapping. Multi-rune expansions ("ß" to "SS") and
 * compatibility folds (KELVIN SIGN to "k") do not apply. Free text never
 * goes through Fold.
 *
 * Composite keys are plain comparable structs built from the Nullable*
 * parts below, so map-based grouping gives null-safe equality for free:
 * two absent values are equal, an absent value never equals a present one.
 */

// Fold returns the ordinal case-insensitive key of s.
func Fold(s string) string {
	return strings.Map(unicode.ToUpper, s)
}

// NullableString is a comparable optional string key part.
type NullableString struct {
	Value string
	Valid bool
}

// NullableInt is a comparable optional int key part.
type NullableInt struct {
	Value int
	Valid bool
}

// NullableInt64 is a comparable optional int64 key part.
type NullableInt64 struct {
	Value int64
	Valid bool
}

// NullableDate is a comparable optional date key part (day granularity, UTC).
type NullableDate struct {
	Value time.Time
	Valid bool
}

// FoldString projects an optional code token to a case-folded key part.
func FoldString(p *string) NullableString {
	if p == nil {
		return NullableString{}
	}
	return NullableString{Value: Fold(*p), Valid: true}
}

// Int projects an optional int to a key part.
func Int(p *int) NullableInt {
	if p == nil {
		return NullableInt{}
	}
	return NullableInt{Value: *p, Valid: true}
}

// Int64 projects an optional int64 to a key part.
func Int64(p *int64) NullableInt64 {
	if p == nil {
		return NullableInt64{}
	}
	return NullableInt64{Value: *p, Valid: true}
}

// Date projects an optional date to a key part.
func Date(p *time.Time) NullableDate {
	if p == nil {
		return NullableDate{}
	}
	return NullableDate{Value: Day(*p), Valid: true}
}

// Day truncates t to midnight UTC of its calendar date.
// ILR dates carry no time of day; comparisons happen on whole days.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// InFold reports whether value matches any of set under case folding.
func InFold(value string, set ...string) bool {
	folded := Fold(value)
	for _, s := range set {
		if Fold(s) == folded {
			return true
		}
	}
	return false
}

// IntIn reports whether an optional int is present and in set.
func IntIn(value *int, set ...int) bool {
	if value == nil {
		return false
	}
	for _, s := range set {
		if *value == s {
			return true
		}
	}
	return false
}
