// Package stats computes grouped energy and frequency statistics.
package stats

import (
	"cmp"
	"maps"
	"slices"
)

// Summary describes the values observed for one group. Mean, Min and Max
// are nil when Count is zero.
type Summary struct {
	Count int      `json:"count"`
	Mean  *float64 `json:"mean"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
}

// MeanOr returns the mean, or fallback for an empty group.
func (s Summary) MeanOr(fallback float64) float64 {
	if s.Mean == nil {
		return fallback
	}
	return *s.Mean
}

// Single adapts a one-group key function to the grouping shape Aggregate
// takes.
func Single[T any, K comparable](key func(T) K) func(T) []K {
	return func(item T) []K { return []K{key(item)} }
}

type accumulator struct {
	count    int
	sum      float64
	min, max float64
}

func (a *accumulator) add(v float64) {
	if a.count == 0 || v < a.min {
		a.min = v
	}
	if a.count == 0 || v > a.max {
		a.max = v
	}
	a.count++
	a.sum += v
}

func (a *accumulator) summary() Summary {
	if a.count == 0 {
		return Summary{}
	}
	mean := a.sum / float64(a.count)
	lo, hi := a.min, a.max
	return Summary{Count: a.count, Mean: &mean, Min: &lo, Max: &hi}
}

// Aggregate groups items and summarises value per group. group returns the
// groups an item belongs to; an item may sit in several (tags) or none.
// Only seeded keys appear with a zero count; all other keys come from the
// data.
func Aggregate[T any, K comparable](items []T, group func(T) []K, value func(T) float64, seed ...K) map[K]Summary {
	accs := make(map[K]*accumulator, len(seed))
	for _, k := range seed {
		accs[k] = &accumulator{}
	}
	for _, item := range items {
		v := value(item)
		for _, k := range group(item) {
			acc, ok := accs[k]
			if !ok {
				acc = &accumulator{}
				accs[k] = acc
			}
			acc.add(v)
		}
	}

	out := make(map[K]Summary, len(accs))
	for k, acc := range accs {
		out[k] = acc.summary()
	}
	return out
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	return slices.Sorted(maps.Keys(m))
}

// Counts reduces summaries to their counts.
func Counts[K comparable](m map[K]Summary) map[K]int {
	out := make(map[K]int, len(m))
	for k, s := range m {
		out[k] = s.Count
	}
	return out
}
