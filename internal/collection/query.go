package collection

import (
	"math"
	"sort"
	"strings"
)

// Filter returns the records for which keep reports true, in order.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := []T{}
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Search returns the records whose field contains query, case-insensitively.
// The query is trimmed before matching.
func Search[T any](items []T, query string, field func(T) string) []T {
	needle := strings.ToLower(strings.TrimSpace(query))
	return Filter(items, func(item T) bool {
		return strings.Contains(strings.ToLower(field(item)), needle)
	})
}

// GroupBy maps each distinct key to the records sharing it. Records keep their
// insertion order within a group.
func GroupBy[T any](items []T, key func(T) string) map[string][]T {
	groups := make(map[string][]T)
	for _, item := range items {
		k := key(item)
		groups[k] = append(groups[k], item)
	}
	return groups
}

// Distinct returns the sorted distinct keys of items.
func Distinct[T any](items []T, key func(T) string) []string {
	seen := make(map[string]struct{})
	for _, item := range items {
		seen[key(item)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Recommend keeps rated records at or above minRating whose category equals
// category (case-insensitive; empty matches all), sorted by rating descending.
func Recommend[T any](items []T, minRating float64, category string, rating func(T) *float64, categoryOf func(T) string) []T {
	out := Filter(items, func(item T) bool {
		r := rating(item)
		if r == nil || *r < minRating {
			return false
		}
		return category == "" || strings.EqualFold(categoryOf(item), category)
	})
	sort.SliceStable(out, func(i, j int) bool {
		return *rating(out[i]) > *rating(out[j])
	})
	return out
}

// AverageRating returns the mean of the set ratings, or 0 when none are set.
func AverageRating[T any](items []T, rating func(T) *float64) float64 {
	var sum float64
	var n int
	for _, item := range items {
		if r := rating(item); r != nil {
			sum += *r
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
