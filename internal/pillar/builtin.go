package pillar

import (
	"fmt"
	"maps"
	"slices"
)

const DefaultVersion = "v2"

var builtins = map[string]Taxonomy{
	"v1": {
		Version:  "v1",
		Pillars:  []string{"work", "life", "growth", "rest"},
		Fallback: "life",
		Categories: map[string]string{
			"meeting":       "work",
			"meetings":      "work",
			"calls":         "work",
			"review":        "work",
			"coding":        "work",
			"email":         "work",
			"planning":      "work",
			"admin":         "work",
			"deep work":     "work",
			"exercise":      "growth",
			"gym":           "growth",
			"running":       "growth",
			"yoga":          "growth",
			"reading":       "growth",
			"learning":      "growth",
			"writing":       "growth",
			"meditation":    "growth",
			"hobbies":       "growth",
			"church":        "growth",
			"family":        "life",
			"friends":       "life",
			"social":        "life",
			"socializing":   "life",
			"cooking":       "life",
			"meal prep":     "life",
			"meal":          "life",
			"chores":        "life",
			"cleaning":      "life",
			"commute":       "life",
			"travel":        "life",
			"errands":       "life",
			"shopping":      "life",
			"finances":      "life",
			"personal care": "life",
			"sleep":         "rest",
			"overnight":     "rest",
			"nap":           "rest",
			"quiet time":    "rest",
			"entertainment": "rest",
			"leisure":       "rest",
			"tv":            "rest",
		},
	},
	"v2": {
		Version:  "v2",
		Pillars:  []string{"work", "life", "health", "sleep"},
		Fallback: "life",
		Categories: map[string]string{
			"meeting":       "work",
			"meetings":      "work",
			"calls":         "work",
			"review":        "work",
			"coding":        "work",
			"email":         "work",
			"planning":      "work",
			"admin":         "work",
			"deep work":     "work",
			"learning":      "work",
			"exercise":      "health",
			"gym":           "health",
			"running":       "health",
			"meditation":    "health",
			"walk":          "health",
			"yoga":          "health",
			"quiet time":    "health",
			"personal care": "health",
			"reading":       "life",
			"writing":       "life",
			"hobbies":       "life",
			"church":        "life",
			"family":        "life",
			"friends":       "life",
			"social":        "life",
			"socializing":   "life",
			"cooking":       "life",
			"meal prep":     "life",
			"meal":          "life",
			"chores":        "life",
			"cleaning":      "life",
			"commute":       "life",
			"travel":        "life",
			"errands":       "life",
			"shopping":      "life",
			"finances":      "life",
			"entertainment": "life",
			"leisure":       "life",
			"tv":            "life",
			"sleep":         "sleep",
			"overnight":     "sleep",
			"nap":           "sleep",
		},
	},
}

// Versions lists the built-in taxonomy versions.
func Versions() []string {
	return slices.Sorted(maps.Keys(builtins))
}

// Builtin returns a copy of a built-in taxonomy.
func Builtin(version string) (*Taxonomy, error) {
	t, ok := builtins[version]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTaxonomy, version)
	}
	t.Pillars = slices.Clone(t.Pillars)
	t.Categories = maps.Clone(t.Categories)
	return &t, nil
}

// Default returns the current built-in taxonomy.
func Default() *Taxonomy {
	t, _ := Builtin(DefaultVersion)
	return t
}
