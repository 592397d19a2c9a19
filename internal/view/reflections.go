package view

import (
	"github.com/christopherklint97/timescape/internal/activity"
	"github.com/christopherklint97/timescape/internal/period"
	"github.com/christopherklint97/timescape/internal/stats"
)

// ReflectionDay is one day of a reflection calendar.
type ReflectionDay struct {
	Day        string                    `json:"day"`
	Weekday    string                    `json:"weekday"`
	Reflection *activity.DailyReflection `json:"reflection,omitempty"`
	Energy     stats.Summary             `json:"energy"`
}

// ReflectionMonth returns every day of month, each with its reflection if
// one exists and the energy summary of the activities starting that day.
func (m Model) ReflectionMonth(month string, acts []activity.Activity) ([]ReflectionDay, error) {
	start, end, err := period.Bounds(period.Month, month, m.Location())
	if err != nil {
		return nil, err
	}

	loc := m.Location()
	energy := stats.Aggregate(acts,
		stats.Single(func(a activity.Activity) string { return period.DayKey(a.Start.In(loc)) }),
		func(a activity.Activity) float64 { return a.EnergyRating },
	)

	days := period.DaysBetween(start, end.AddDate(0, 0, -1))
	out := make([]ReflectionDay, 0, len(days))
	for _, d := range days {
		rd := ReflectionDay{Day: period.DayKey(d), Weekday: d.Weekday().String()}
		rd.Energy = energy[rd.Day]
		if r, ok := m.Reflections.Lookup(rd.Day); ok {
			rd.Reflection = &r
		}
		out = append(out, rd)
	}
	return out, nil
}
