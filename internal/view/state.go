// Package view holds the explicit, serializable browsing state and the
// reducer and query functions that consume it.
package view

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/christopherklint97/timescape/internal/activity"
	"github.com/christopherklint97/timescape/internal/layout"
	"github.com/christopherklint97/timescape/internal/period"
)

// State is everything a render depends on besides the dataset itself.
type State struct {
	Profile      string             `json:"profile,omitempty"`
	Granularity  period.Granularity `json:"granularity"`
	Period       string             `json:"period"`
	Facets       period.Facets      `json:"facets"`
	EnergySizing bool               `json:"energySizing"`
	Strip        bool               `json:"strip"`
	Reflections  bool               `json:"reflections"`
}

func (s State) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalState decodes and validates a serialized state.
func UnmarshalState(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("parsing view state: %w", err)
	}
	g, err := period.ParseGranularity(string(s.Granularity))
	if err != nil {
		return State{}, err
	}
	s.Granularity = g
	return s, nil
}

// Action is a user intent applied by Model.Reduce.
type Action interface {
	action()
}

// Navigate moves Delta periods through the periods that have data. In the
// reflection calendar it steps calendar months instead.
type Navigate struct{ Delta int }

// SetGranularity switches granularity, keeping the period that contains the
// start of the current one. Leaving month granularity closes the reflection
// calendar.
type SetGranularity struct{ Granularity period.Granularity }

// SetFacets replaces the facet filters. A period left without data moves to
// the nearest one that has some.
type SetFacets struct{ Facets period.Facets }

// JumpTo selects the period containing At.
type JumpTo struct{ At time.Time }

// SelectProfile switches dataset profile; the period resets to the latest one.
type SelectProfile struct{ Profile string }

type ToggleEnergy struct{}

type ToggleStrip struct{}

// ToggleReflections opens or closes the month reflection calendar. Opening
// it switches to month granularity.
type ToggleReflections struct{}

func (Navigate) action()          {}
func (SetGranularity) action()    {}
func (SetFacets) action()         {}
func (JumpTo) action()            {}
func (SelectProfile) action()     {}
func (ToggleEnergy) action()      {}
func (ToggleStrip) action()       {}
func (ToggleReflections) action() {}

// Model is the read-only data a session browses.
type Model struct {
	Activities  []activity.Activity
	Reflections *activity.ReflectionBook
	Engine      *layout.Engine
}

// Location is the timezone periods are resolved in.
func (m Model) Location() *time.Location {
	if m.Engine == nil {
		return time.Local
	}
	return m.Engine.Location()
}

// Initial returns the state showing the most recent day with data. Energy
// sizing starts as the engine is configured.
func (m Model) Initial(profile string) State {
	cfg := layout.DefaultConfig()
	if m.Engine != nil {
		cfg = m.Engine.Config()
	}
	s := State{
		Profile:      profile,
		Granularity:  period.Day,
		Facets:       period.Facets{Pillar: period.All, Category: period.All},
		EnergySizing: cfg.EnergySizing,
	}
	s.Period = m.latest(s)
	return s
}

func (m Model) periods(s State) []string {
	return period.EnumeratePeriods(period.ApplyFacetFilters(m.Activities, s.Facets), s.Granularity)
}

func (m Model) latest(s State) string {
	keys := m.periods(s)
	if len(keys) == 0 {
		return ""
	}
	return keys[len(keys)-1]
}

// Reduce returns the state after applying a. The input state is not modified.
func (m Model) Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Navigate:
		if s.Reflections {
			if key, err := period.Shift(period.Month, s.Period, a.Delta, m.Location()); err == nil {
				s.Period = key
			}
			break
		}
		keys := m.periods(s)
		cur := s.Period
		for i := 0; i < abs(a.Delta); i++ {
			prev, next := period.Neighbors(keys, cur)
			step := next
			if a.Delta < 0 {
				step = prev
			}
			if step == "" {
				break
			}
			cur = step
		}
		s.Period = cur
	case SetGranularity:
		start, err := period.ParseKey(s.Granularity, s.Period, m.Location())
		s.Granularity = a.Granularity
		if a.Granularity != period.Month {
			s.Reflections = false
		}
		if err != nil {
			s.Period = m.latest(s)
		} else {
			s.Period = a.Granularity.KeyOf(start)
		}
	case SetFacets:
		s.Facets = a.Facets
		s.Period = period.Nearest(m.periods(s), s.Period)
	case JumpTo:
		s.Period = s.Granularity.KeyOf(a.At.In(m.Location()))
	case SelectProfile:
		s.Profile = a.Profile
		s.Period = m.latest(s)
	case ToggleEnergy:
		s.EnergySizing = !s.EnergySizing
	case ToggleStrip:
		s.Strip = !s.Strip
	case ToggleReflections:
		s.Reflections = !s.Reflections
		if s.Reflections && s.Granularity != period.Month {
			s = m.Reduce(s, SetGranularity{Granularity: period.Month})
		}
	}
	return s
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
