// Package reduce applies client-side post-filters the upstream query
// interface cannot express natively.
package reduce

import (
	"sort"
	"strings"

	"github.com/stokewood/triage/internal/record"
)

// OrderPolicy fixes the priority-id sort direction of the non-matching
// partition in ReorderPriority.
type OrderPolicy int

const (
	OrderAscending OrderPolicy = iota
	OrderDescending
)

// DropEstimated removes every issue carrying an estimate. The total
// count shrinks with each removal.
func DropEstimated(rs *record.ResultSet) {
	keepWhere(rs, func(item record.Record) bool {
		return !item.Has("estimated_hours")
	})
}

// FilterSubject keeps issues whose subject contains needle,
// case-insensitive. Same total-count rule as DropEstimated.
func FilterSubject(rs *record.ResultSet, needle string) {
	needle = strings.ToLower(needle)
	keepWhere(rs, func(item record.Record) bool {
		return strings.Contains(strings.ToLower(item.Str("subject")), needle)
	})
}

// FilterContains keeps records where at least one of the named fields
// contains needle, case-insensitive.
func FilterContains(items []record.Record, needle string, fields ...string) []record.Record {
	needle = strings.ToLower(needle)
	var kept []record.Record
	for _, item := range items {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(item.Str(field)), needle) {
				kept = append(kept, item)
				break
			}
		}
	}
	return kept
}

// ReorderPriority moves issues whose priority name matches to the
// front, keeping their original relative order, and stable-sorts the
// remainder by numeric priority id under the given policy. The result
// is an exact permutation of the input.
func ReorderPriority(rs *record.ResultSet, priorityName string, policy OrderPolicy) {
	var matched, rest []record.Record
	for _, item := range rs.Items {
		name, _ := item.Name("priority")
		if strings.EqualFold(name, priorityName) {
			matched = append(matched, item)
		} else {
			rest = append(rest, item)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		a, b := priorityID(rest[i]), priorityID(rest[j])
		if policy == OrderDescending {
			return a > b
		}
		return a < b
	})
	rs.Items = append(matched, rest...)
}

func priorityID(item record.Record) int {
	priority, ok := item.Sub("priority")
	if !ok {
		return 0
	}
	id, _ := priority.Int("id")
	return id
}

func keepWhere(rs *record.ResultSet, keep func(record.Record) bool) {
	kept := rs.Items[:0]
	for _, item := range rs.Items {
		if keep(item) {
			kept = append(kept, item)
			continue
		}
		if rs.HasTotal && rs.TotalCount > 0 {
			rs.TotalCount--
		}
	}
	rs.Items = kept
}
