// internal/predicates/collections.go
package predicates

// KeyCount is the number of items sharing one key.
type KeyCount[K comparable] struct {
	Key   K
	Count int
}

// NonNil drops nil placeholders from a slice of records.
// Returns nil for a nil or all-nil input.
func NonNil[T any](items []*T) []*T {
	var out []*T
	for _, item := range items {
		if item != nil {
			out = append(out, item)
		}
	}
	return out
}

// Filter returns the non-nil items matching pred, in input order.
func Filter[T any](items []*T, pred func(*T) bool) []*T {
	var out []*T
	for _, item := range items {
		if item != nil && pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// AnyWhere reports whether any non-nil item matches pred.
func AnyWhere[T any](items []*T, pred func(*T) bool) bool {
	for _, item := range items {
		if item != nil && pred(item) {
			return true
		}
	}
	return false
}

// CountWhere counts the non-nil items matching pred.
func CountWhere[T any](items []*T, pred func(*T) bool) int {
	n := 0
	for _, item := range items {
		if item != nil && pred(item) {
			n++
		}
	}
	return n
}

// CountByKey counts items per key in first-seen key order.
// Items whose key projection returns ok=false are not counted.
func CountByKey[T any, K comparable](items []T, key func(T) (K, bool)) []KeyCount[K] {
	index := make(map[K]int)
	var counts []KeyCount[K]
	for _, item := range items {
		k, ok := key(item)
		if !ok {
			continue
		}
		if i, seen := index[k]; seen {
			counts[i].Count++
			continue
		}
		index[k] = len(counts)
		counts = append(counts, KeyCount[K]{Key: k, Count: 1})
	}
	return counts
}

// KeysCountExceeding returns the keys counted more than limit times.
func KeysCountExceeding[T any, K comparable](items []T, limit int, key func(T) (K, bool)) []K {
	var keys []K
	for _, kc := range CountByKey(items, key) {
		if kc.Count > limit {
			keys = append(keys, kc.Key)
		}
	}
	return keys
}
