package common

import (
	"maps"
	"slices"
)

// SortedKeys returns the keys of a set-like map in ascending order.
func SortedKeys[M ~map[string]V, V any](m M) []string {
	return slices.Sorted(maps.Keys(m))
}
