package view

import (
	"github.com/christopherklint97/timescape/internal/activity"
	"github.com/christopherklint97/timescape/internal/layout"
	"github.com/christopherklint97/timescape/internal/period"
	"github.com/christopherklint97/timescape/internal/stats"
)

// Render is everything the presentation layer needs for one state. It is
// recomputed from scratch on every call.
type Render struct {
	State        State                     `json:"state"`
	Activities   []activity.Activity       `json:"activities"`
	Frame        *layout.Frame             `json:"frame,omitempty"`
	Periods      []string                  `json:"periods"`
	Prev         string                    `json:"prev,omitempty"`
	Next         string                    `json:"next,omitempty"`
	Reflection   *activity.DailyReflection `json:"reflection,omitempty"`
	Distribution map[int]stats.Summary     `json:"distribution"`
	Categories   []stats.CategoryStat      `json:"categories"`
	Calendar     []ReflectionDay           `json:"calendar,omitempty"`
	Excluded     []layout.Exclusion        `json:"-"`
}

// Empty reports whether the selection has no activities.
func (r *Render) Empty() bool {
	return len(r.Activities) == 0
}

// Query computes the render for s.
func (m Model) Query(s State) (*Render, error) {
	filtered := period.ApplyFacetFilters(m.Activities, s.Facets)

	r := &Render{State: s, Periods: period.EnumeratePeriods(filtered, s.Granularity)}
	r.Prev, r.Next = period.Neighbors(r.Periods, s.Period)
	if s.Period == "" {
		r.Activities = []activity.Activity{}
		r.Distribution = stats.EnergyDistribution(nil)
		return r, nil
	}

	r.Activities = period.FilterByPeriod(filtered, s.Granularity, s.Period)
	r.Distribution = stats.EnergyDistribution(r.Activities)
	r.Categories = stats.ByCategory(r.Activities)

	if s.Granularity == period.Day {
		if refl, ok := m.Reflections.Lookup(period.NormalizeKey(period.Day, s.Period)); ok {
			r.Reflection = &refl
		}
	}
	if s.Reflections && s.Granularity == period.Month {
		cal, err := m.ReflectionMonth(s.Period, r.Activities)
		if err != nil {
			return nil, err
		}
		r.Calendar = cal
	}

	engine := m.Engine
	if engine == nil {
		engine = layout.New(layout.DefaultConfig(), nil)
	}
	engine = engine.WithEnergySizing(s.EnergySizing)

	var err error
	if s.Strip && s.Granularity == period.Year {
		year, yearErr := period.YearFromAny(s.Period)
		if yearErr != nil {
			return nil, yearErr
		}
		r.Frame, err = engine.StripYears(year, year, r.Activities)
	} else {
		r.Frame, err = engine.ForGranularity(s.Granularity, s.Period, r.Activities)
	}
	if err != nil {
		return nil, err
	}
	r.Excluded = r.Frame.Excluded
	return r, nil
}
