package activity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	// ErrDuplicateReflection is returned when two reflections share a day key.
	ErrDuplicateReflection = errors.New("duplicate reflection for day")
	// ErrUnknownMood is returned for moods outside the closed set.
	ErrUnknownMood = errors.New("unknown mood")
)

// Mood is the closed set of day-level moods.
type Mood string

const (
	MoodHappy       Mood = "happy"
	MoodContent     Mood = "content"
	MoodPeaceful    Mood = "peaceful"
	MoodGrateful    Mood = "grateful"
	MoodExcited     Mood = "excited"
	MoodAnxious     Mood = "anxious"
	MoodTired       Mood = "tired"
	MoodOverwhelmed Mood = "overwhelmed"
	MoodSad         Mood = "sad"
	MoodFrustrated  Mood = "frustrated"
)

// Moods lists every mood, pleasant ones first.
var Moods = []Mood{
	MoodHappy, MoodContent, MoodPeaceful, MoodGrateful, MoodExcited,
	MoodAnxious, MoodTired, MoodOverwhelmed, MoodSad, MoodFrustrated,
}

func ParseMood(s string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Moods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMood, s)
}

// DailyReflection is the free-text journal entry attached to a whole day.
type DailyReflection struct {
	Date       string   `json:"date" yaml:"date"`
	Mood       Mood     `json:"mood" yaml:"mood"`
	Reflection string   `json:"reflection" yaml:"reflection"`
	DayOfWeek  string   `json:"dayOfWeek,omitempty" yaml:"dayOfWeek,omitempty"`
	Tags       []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ReflectionBook indexes daily reflections by day key.
type ReflectionBook struct {
	byDay map[string]DailyReflection
}

// NewReflectionBook validates and indexes reflections. DayOfWeek is derived
// from Date; a supplied value that disagrees is rejected.
func NewReflectionBook(reflections []DailyReflection) (*ReflectionBook, error) {
	book := &ReflectionBook{byDay: make(map[string]DailyReflection, len(reflections))}
	for _, r := range reflections {
		day, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			return nil, fmt.Errorf("parsing reflection date %q: %w", r.Date, err)
		}
		weekday := day.Weekday().String()
		if r.DayOfWeek != "" && !strings.EqualFold(r.DayOfWeek, weekday) {
			return nil, fmt.Errorf("reflection %s: day of week %q does not match %s", r.Date, r.DayOfWeek, weekday)
		}
		r.DayOfWeek = weekday
		if r.Mood != "" {
			mood, err := ParseMood(string(r.Mood))
			if err != nil {
				return nil, fmt.Errorf("reflection %s: %w", r.Date, err)
			}
			r.Mood = mood
		}
		r.Tags = dedupeTags(r.Tags)
		if _, exists := book.byDay[r.Date]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateReflection, r.Date)
		}
		book.byDay[r.Date] = r
	}
	return book, nil
}

// Lookup returns the reflection for an exact day key.
func (b *ReflectionBook) Lookup(dayKey string) (DailyReflection, bool) {
	if b == nil {
		return DailyReflection{}, false
	}
	r, ok := b.byDay[dayKey]
	return r, ok
}

// Len returns the number of indexed days.
func (b *ReflectionBook) Len() int {
	if b == nil {
		return 0
	}
	return len(b.byDay)
}

// All returns the reflections in ascending day order.
func (b *ReflectionBook) All() []DailyReflection {
	if b == nil {
		return nil
	}
	out := make([]DailyReflection, 0, len(b.byDay))
	for _, r := range b.byDay {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// tags are a set; keep first-seen order
func dedupeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
