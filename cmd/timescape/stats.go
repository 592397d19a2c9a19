package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/timescape/internal/activity"
	"github.com/christopherklint97/timescape/internal/period"
	"github.com/christopherklint97/timescape/internal/stats"
	"github.com/christopherklint97/timescape/internal/view"
)

// statsScope is the activity and reflection set a stats view runs over.
type statsScope struct {
	label       string
	activities  []activity.Activity
	reflections []activity.DailyReflection
}

func runStats(cmd *cobra.Command, args []string) error {
	_, m, err := load(cmd)
	if err != nil {
		return err
	}
	scope, err := resolveScope(cmd, m)
	if err != nil {
		return err
	}

	by, _ := cmd.Flags().GetString("by")
	asJSON, _ := cmd.Flags().GetBool("json")
	loc := m.Location()

	var out any
	switch strings.ToLower(by) {
	case "distribution":
		out = stats.EnergyDistribution(scope.activities)
	case "hour":
		out = hourRows(stats.EnergyByHourWeekday(scope.activities, loc))
	case "month":
		out = stats.EnergyByMonth(scope.activities, loc)
	case "category":
		out = stats.ByCategory(scope.activities)
	case "mood":
		out = stats.MoodFrequency(scope.reflections)
	case "tags":
		out = stats.TagFrequency(scope.reflections)
	case "people":
		out = stats.PeopleFrequency(scope.activities)
	default:
		return fmt.Errorf("unknown stats view %q", by)
	}
	if asJSON {
		return writeJSON(out)
	}

	fmt.Printf("%s: %d activities, %d reflections\n\n", scope.label, len(scope.activities), len(scope.reflections))
	switch v := out.(type) {
	case map[int]stats.Summary:
		for _, level := range stats.SortedKeys(v) {
			s := v[level]
			fmt.Printf("  energy %2d  %4d×  %s\n", level, s.Count, formatMinutes(int(s.MeanOr(0)*float64(s.Count))))
		}
	case []hourRow:
		fmt.Println("       " + hourHeader())
		for _, row := range v {
			fmt.Printf("  %s  %s\n", row.Weekday.String()[:3], row.cells())
		}
	case []stats.Point:
		for _, p := range v {
			fmt.Printf("  %s  %4d×  mean %.1f\n", p.Key, p.Summary.Count, p.Summary.MeanOr(0))
		}
	case []stats.CategoryStat:
		for _, c := range v {
			fmt.Printf("  %-16s %4d×  mean %.1f  min %.0f  max %.0f  %s\n",
				c.Category, c.Summary.Count, c.Summary.MeanOr(0), *c.Summary.Min, *c.Summary.Max,
				strings.Join(c.Emotions, ", "))
		}
	case map[activity.Mood]int:
		for _, mood := range activity.Moods {
			fmt.Printf("  %-11s %4d\n", mood, v[mood])
		}
	case map[string]int:
		for _, k := range stats.SortedKeys(v) {
			name := k
			if name == "" {
				name = "(alone)"
			}
			fmt.Printf("  %-20s %4d\n", name, v[k])
		}
	}
	return nil
}

// resolveScope narrows to one period when --period or --at is given and
// otherwise uses every facet-filtered activity.
func resolveScope(cmd *cobra.Command, m view.Model) (statsScope, error) {
	key, _ := cmd.Flags().GetString("period")
	at, _ := cmd.Flags().GetString("at")
	f := facets(cmd)

	if key == "" && at == "" {
		return statsScope{
			label:       "all periods",
			activities:  period.ApplyFacetFilters(m.Activities, f),
			reflections: m.Reflections.All(),
		}, nil
	}

	s, err := selectState(cmd, m, period.Month)
	if err != nil {
		return statsScope{}, err
	}
	r, err := m.Query(s)
	if err != nil {
		return statsScope{}, err
	}

	var reflections []activity.DailyReflection
	for _, refl := range m.Reflections.All() {
		day, err := period.ParseKey(period.Day, refl.Date, m.Location())
		if err == nil && s.Granularity.KeyOf(day) == s.Period {
			reflections = append(reflections, refl)
		}
	}
	return statsScope{
		label:       fmt.Sprintf("%s %s", s.Granularity, s.Period),
		activities:  r.Activities,
		reflections: reflections,
	}, nil
}

// hourRow is one weekday of the hour heatmap, Sunday first.
type hourRow struct {
	Weekday time.Weekday       `json:"weekday"`
	Hours   [24]*stats.Summary `json:"hours"`
}

func hourRows(m map[stats.HourWeekday]stats.Summary) []hourRow {
	rows := make([]hourRow, 7)
	for d := range rows {
		rows[d].Weekday = time.Weekday(d)
	}
	for k, s := range m {
		rows[k.Weekday].Hours[k.Hour] = &s
	}
	return rows
}

func (r hourRow) cells() string {
	var b strings.Builder
	for _, s := range r.Hours {
		if s == nil {
			b.WriteString("  ·")
			continue
		}
		fmt.Fprintf(&b, "%3.0f", s.MeanOr(0))
	}
	return b.String()
}

func hourHeader() string {
	var b strings.Builder
	for h := 0; h < 24; h++ {
		fmt.Fprintf(&b, "%3d", h)
	}
	return b.String()
}
