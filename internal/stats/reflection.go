package stats

import "github.com/christopherklint97/timescape/internal/activity"

func one[T any](T) float64 { return 1 }

// TagFrequency counts the days carrying each reflection tag.
func TagFrequency(reflections []activity.DailyReflection) map[string]int {
	return Counts(Aggregate(reflections, func(r activity.DailyReflection) []string {
		return r.Tags
	}, one[activity.DailyReflection]))
}

// MoodFrequency counts days per mood. Every mood is present, unobserved
// ones with zero; days without a mood are not counted.
func MoodFrequency(reflections []activity.DailyReflection) map[activity.Mood]int {
	return Counts(Aggregate(reflections, func(r activity.DailyReflection) []activity.Mood {
		if r.Mood == "" {
			return nil
		}
		return []activity.Mood{r.Mood}
	}, one[activity.DailyReflection], activity.Moods...))
}

// PeopleFrequency counts activities per participant; solitary activities
// are counted under the empty name.
func PeopleFrequency(acts []activity.Activity) map[string]int {
	return Counts(Aggregate(acts, func(a activity.Activity) []string {
		if a.Solitary() {
			return []string{""}
		}
		return a.People
	}, one[activity.Activity]))
}
