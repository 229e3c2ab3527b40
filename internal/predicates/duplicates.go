// internal/predicates/duplicates.go
package predicates

/*
 * Duplicate-key detection.
 *
 * All functions take a key projection returning (key, ok). ok=false excludes
 * the element from grouping entirely: nil placeholders, sentinel values such
 * as the temporary ULN, and elements the rule does not constrain.
 *
 * Ordering: groups are returned in the order their key was first seen, and
 * members within a group keep input order. Rules report in this order so a
 * single Validate call is deterministic.
 *
 * Reporting policy is the caller's choice:
 *   - DuplicateMembers: every member of every oversized group (input order)
 *   - DuplicateRepresentatives: first member of each oversized group
 *   - DuplicateGroups: the groups themselves
 */

// DuplicateGroups partitions items by key and returns every group with more
// than one member.
func DuplicateGroups[T any, K comparable](items []T, key func(T) (K, bool)) [][]T {
	if len(items) < 2 {
		return nil
	}

	index := make(map[K]int, len(items))
	groups := make([][]T, 0, len(items))
	for _, item := range items {
		k, ok := key(item)
		if !ok {
			continue
		}
		if i, seen := index[k]; seen {
			groups[i] = append(groups[i], item)
			continue
		}
		index[k] = len(groups)
		groups = append(groups, []T{item})
	}

	var duplicates [][]T
	for _, g := range groups {
		if len(g) > 1 {
			duplicates = append(duplicates, g)
		}
	}
	return duplicates
}

// DuplicateMembers returns every item whose key occurs more than once,
// in input order.
func DuplicateMembers[T any, K comparable](items []T, key func(T) (K, bool)) []T {
	if len(items) < 2 {
		return nil
	}

	counts := make(map[K]int, len(items))
	for _, item := range items {
		if k, ok := key(item); ok {
			counts[k]++
		}
	}

	var members []T
	for _, item := range items {
		k, ok := key(item)
		if ok && counts[k] > 1 {
			members = append(members, item)
		}
	}
	return members
}

// DuplicateRepresentatives returns the first item of each duplicate group.
func DuplicateRepresentatives[T any, K comparable](items []T, key func(T) (K, bool)) []T {
	groups := DuplicateGroups(items, key)
	if len(groups) == 0 {
		return nil
	}
	reps := make([]T, 0, len(groups))
	for _, g := range groups {
		reps = append(reps, g[0])
	}
	return reps
}

// HasDuplicates reports whether any key occurs more than once.
func HasDuplicates[T any, K comparable](items []T, key func(T) (K, bool)) bool {
	seen := make(map[K]struct{}, len(items))
	for _, item := range items {
		k, ok := key(item)
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			return true
		}
		seen[k] = struct{}{}
	}
	return false
}
