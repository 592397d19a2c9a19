package stats

import (
	"math"
	"sort"
	"time"

	"github.com/christopherklint97/timescape/internal/activity"
	"github.com/christopherklint97/timescape/internal/period"
)

// Energy levels shown in the distribution view.
const (
	MinLevel = 1
	MaxLevel = 10
)

func energy(a activity.Activity) float64 { return a.EnergyRating }

// HourWeekday is a heatmap cell.
type HourWeekday struct {
	Weekday time.Weekday `json:"weekday"`
	Hour    int          `json:"hour"`
}

// EnergyByHourWeekday summarises energy by the weekday and hour each
// activity starts in, in loc.
func EnergyByHourWeekday(acts []activity.Activity, loc *time.Location) map[HourWeekday]Summary {
	if loc == nil {
		loc = time.Local
	}
	return Aggregate(acts, Single(func(a activity.Activity) HourWeekday {
		t := a.Start.In(loc)
		return HourWeekday{Weekday: t.Weekday(), Hour: t.Hour()}
	}), energy)
}

// Point is one entry of an ordered series.
type Point struct {
	Key     string  `json:"key"`
	Summary Summary `json:"summary"`
}

// EnergyByMonth returns the monthly energy trend in chronological order.
func EnergyByMonth(acts []activity.Activity, loc *time.Location) []Point {
	if loc == nil {
		loc = time.Local
	}
	m := Aggregate(acts, Single(func(a activity.Activity) string {
		return period.MonthKey(a.Start.In(loc))
	}), energy)

	out := make([]Point, 0, len(m))
	for _, k := range SortedKeys(m) {
		out = append(out, Point{Key: k, Summary: m[k]})
	}
	return out
}

// EnergyDistribution counts activities per rounded energy level and
// summarises their durations in minutes. Levels 1-10 are always present;
// out-of-range levels appear only when observed.
func EnergyDistribution(acts []activity.Activity) map[int]Summary {
	levels := make([]int, 0, MaxLevel-MinLevel+1)
	for l := MinLevel; l <= MaxLevel; l++ {
		levels = append(levels, l)
	}
	return Aggregate(acts, Single(func(a activity.Activity) int {
		return int(math.Round(a.EnergyRating))
	}), func(a activity.Activity) float64 {
		return float64(a.Duration)
	}, levels...)
}

// CategoryStat is the energy summary of one category.
type CategoryStat struct {
	Category string   `json:"category"`
	Summary  Summary  `json:"summary"`
	Emotions []string `json:"emotions"`
}

// ByCategory summarises energy per category, highest mean first.
func ByCategory(acts []activity.Activity) []CategoryStat {
	m := Aggregate(acts, Single(func(a activity.Activity) string { return a.Category }), energy)

	out := make([]CategoryStat, 0, len(m))
	for c, s := range m {
		out = append(out, CategoryStat{Category: c, Summary: s, Emotions: Emotions(s.MeanOr(0))})
	}
	sort.Slice(out, func(i, j int) bool {
		mi, mj := out[i].Summary.MeanOr(0), out[j].Summary.MeanOr(0)
		if mi != mj {
			return mi > mj
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Emotions describes an average energy rating in words.
func Emotions(mean float64) []string {
	switch {
	case mean >= 8:
		return []string{"energized", "focused", "motivated"}
	case mean >= 6.5:
		return []string{"content", "engaged", "steady"}
	case mean >= 5:
		return []string{"neutral", "calm", "balanced"}
	case mean >= 3.5:
		return []string{"tired", "distracted", "restless"}
	}
	return []string{"drained", "stressed", "overwhelmed"}
}
