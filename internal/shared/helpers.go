// Package shared provides small collection helpers used across the
// ros-cross-compile packages.
package shared

import (
	"slices"
	"sort"
	"strings"
)

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// SortedUnique trims values, drops empty entries and duplicates, and
// returns the rest sorted. The input is not modified.
func SortedUnique(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	sort.Strings(out)
	return slices.Compact(out)
}
