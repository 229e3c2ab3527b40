// internal/predicates/dates.go
package predicates

import (
	"sort"
	"time"
)

/*
 * Date-based selection and interval checks.
 *
 * Latest selects the record with the greatest non-null date. Records with a
 * nil date are never candidates but stay visible to every other check.
 * Ties on the maximum date go to the record that comes first in input order;
 * the result never depends on map iteration or sort stability.
 *
 * Intervals are closed on both ends at day granularity. A nil "to" is
 * open-ended. A nil "from" describes no interval at all: it covers nothing
 * and overlaps nothing.
 */

// Latest returns the record with the maximum non-nil date, or nil when no
// record has a date. First in input order wins on equal dates.
func Latest[T any](items []*T, date func(*T) *time.Time) *T {
	var latest *T
	var latestDay time.Time
	for _, item := range items {
		if item == nil {
			continue
		}
		d := date(item)
		if d == nil {
			continue
		}
		day := Day(*d)
		if latest == nil || day.After(latestDay) {
			latest = item
			latestDay = day
		}
	}
	return latest
}

// LatestOnOrBefore returns the latest record whose date is on or before cutoff.
func LatestOnOrBefore[T any](items []*T, cutoff time.Time, date func(*T) *time.Time) *T {
	limit := Day(cutoff)
	return Latest(items, func(item *T) *time.Time {
		d := date(item)
		if d == nil || Day(*d).After(limit) {
			return nil
		}
		return d
	})
}

// Covers reports whether d falls within [from, to]. A nil to is open-ended;
// a nil from covers nothing.
func Covers(d time.Time, from, to *time.Time) bool {
	if from == nil {
		return false
	}
	day := Day(d)
	if day.Before(Day(*from)) {
		return false
	}
	return to == nil || !day.After(Day(*to))
}

// Overlaps reports whether [aFrom, aTo] and [bFrom, bTo] share at least one day.
func Overlaps(aFrom, aTo, bFrom, bTo *time.Time) bool {
	if aFrom == nil || bFrom == nil {
		return false
	}
	if aTo != nil && Day(*aTo).Before(Day(*bFrom)) {
		return false
	}
	if bTo != nil && Day(*bTo).Before(Day(*aFrom)) {
		return false
	}
	return true
}

// SortedByDate returns the records with a non-nil date ordered ascending.
// Stable: records sharing a date keep input order.
func SortedByDate[T any](items []*T, date func(*T) *time.Time) []*T {
	dated := Filter(items, func(item *T) bool { return date(item) != nil })
	sort.SliceStable(dated, func(i, j int) bool {
		return Day(*date(dated[i])).Before(Day(*date(dated[j])))
	})
	return dated
}

// OverlappingPairs walks records in date order and returns each record whose
// interval overlaps the one immediately before it.
func OverlappingPairs[T any](items []*T, from, to func(*T) *time.Time) []*T {
	sorted := SortedByDate(items, from)
	var overlapping []*T
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if Overlaps(from(prev), to(prev), from(cur), to(cur)) {
			overlapping = append(overlapping, cur)
		}
	}
	return overlapping
}

// AddYears shifts t by n calendar years at day granularity.
func AddYears(t time.Time, n int) time.Time {
	return Day(t).AddDate(n, 0, 0)
}
