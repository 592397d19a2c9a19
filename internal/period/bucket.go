package period

import (
	"sort"
	"strings"

	"github.com/christopherklint97/timescape/internal/activity"
)

// All disables a facet constraint.
const All = "all"

// UniqueKeys returns the sorted set of distinct keys across records.
// The input slice is not modified.
func UniqueKeys(records []activity.Activity, keyFn func(activity.Activity) string) []string {
	seen := make(map[string]struct{}, len(records))
	keys := make([]string, 0)
	for _, r := range records {
		k := keyFn(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FilterByPeriod returns the records starting inside the period, in input order.
func FilterByPeriod(records []activity.Activity, g Granularity, key string) []activity.Activity {
	key = NormalizeKey(g, key)
	out := make([]activity.Activity, 0)
	for _, r := range records {
		if g.KeyOf(r.Start) == key {
			out = append(out, r)
		}
	}
	return out
}

// EnumeratePeriods lists the period identifiers present in records, ascending.
func EnumeratePeriods(records []activity.Activity, g Granularity) []string {
	return UniqueKeys(records, func(a activity.Activity) string { return g.KeyOf(a.Start) })
}

// Bucket is one period's share of a record set.
type Bucket struct {
	Key        string
	Activities []activity.Activity
}

// Partition splits records into period buckets in ascending key order.
// Every record lands in exactly one bucket.
func Partition(records []activity.Activity, g Granularity) []Bucket {
	index := make(map[string]int)
	var buckets []Bucket
	for _, r := range records {
		k := g.KeyOf(r.Start)
		i, ok := index[k]
		if !ok {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, Bucket{Key: k})
		}
		buckets[i].Activities = append(buckets[i].Activities, r)
	}
	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].Key < buckets[j].Key })
	return buckets
}

// Facets narrows a record set by pillar and category. Empty or "all" means
// unconstrained.
type Facets struct {
	Pillar   string `json:"pillar"`
	Category string `json:"category"`
}

// Matches reports whether a passes both constraints.
func (f Facets) Matches(a activity.Activity) bool {
	if !unconstrained(f.Pillar) && a.Pillar != f.Pillar {
		return false
	}
	if !unconstrained(f.Category) && !strings.EqualFold(a.Category, f.Category) {
		return false
	}
	return true
}

func unconstrained(v string) bool {
	return v == "" || v == All
}

// ApplyFacetFilters returns the records matching f, in input order.
func ApplyFacetFilters(records []activity.Activity, f Facets) []activity.Activity {
	out := make([]activity.Activity, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Neighbors returns the keys before and after current in a sorted key list.
// current need not be present itself.
func Neighbors(keys []string, current string) (prev, next string) {
	i := sort.SearchStrings(keys, current)
	if i > 0 {
		prev = keys[i-1]
	}
	if i < len(keys) && keys[i] == current {
		i++
	}
	if i < len(keys) {
		next = keys[i]
	}
	return prev, next
}

// Nearest returns current when it is one of keys, otherwise the closest key
// before it, or failing that the first key after it. With no keys, current
// is returned unchanged.
func Nearest(keys []string, current string) string {
	i := sort.SearchStrings(keys, current)
	switch {
	case len(keys) == 0:
		return current
	case i < len(keys) && keys[i] == current:
		return current
	case i > 0:
		return keys[i-1]
	}
	return keys[0]
}
