package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/timescape/internal/activity"
	"github.com/christopherklint97/timescape/internal/period"
	"github.com/christopherklint97/timescape/internal/tui"
	"github.com/christopherklint97/timescape/internal/view"
)

func runPeriods(cmd *cobra.Command, args []string) error {
	_, m, err := load(cmd)
	if err != nil {
		return err
	}
	s, err := selectState(cmd, m, period.Month)
	if err != nil {
		return err
	}

	filtered := period.ApplyFacetFilters(m.Activities, s.Facets)
	buckets := period.Partition(filtered, s.Granularity)
	if len(buckets) == 0 {
		fmt.Println("No activities found.")
		return nil
	}

	fmt.Printf("%d %s periods:\n\n", len(buckets), s.Granularity)
	for _, b := range buckets {
		fmt.Printf("  %-12s %4d activities  %s\n", b.Key, len(b.Activities), formatMinutes(totalMinutes(b.Activities)))
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	sess, m, err := load(cmd)
	if err != nil {
		return err
	}
	s, err := selectState(cmd, m, period.Day)
	if err != nil {
		return err
	}
	r, err := m.Query(s)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(r)
	}
	if s.Period == "" {
		fmt.Println("No activities found.")
		return nil
	}

	fmt.Printf("%s %s  (prev %s, next %s)\n", s.Granularity, s.Period, orDash(r.Prev), orDash(r.Next))
	if r.Reflection != nil {
		fmt.Printf("Mood: %s  %s\n", r.Reflection.Mood, r.Reflection.Reflection)
	}
	if r.Empty() {
		fmt.Println("\nNo activities in this period.")
		return nil
	}

	fmt.Println()
	fmt.Println(newCanvas(cmd, sess, m).Draw(r.Frame, s.EnergySizing))
	fmt.Println()
	printActivities(r.Activities, m.Location())
	for _, ex := range r.Excluded {
		sess.logger.Warn("activity not drawn", "id", ex.ID, "reason", ex.Err)
	}
	return nil
}

func runReflections(cmd *cobra.Command, args []string) error {
	_, m, err := load(cmd)
	if err != nil {
		return err
	}
	s, err := selectState(cmd, m, period.Month)
	if err != nil {
		return err
	}
	s = m.Reduce(s, view.ToggleReflections{})
	r, err := m.Query(s)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(r.Calendar)
	}
	if s.Period == "" {
		fmt.Println("No activities found.")
		return nil
	}

	start, err := period.ParseKey(period.Month, s.Period, m.Location())
	if err != nil {
		return err
	}
	fmt.Printf("%s reflections  (%d of %d days)\n\n", start.Format("January 2006"), reflected(r.Calendar), len(r.Calendar))
	fmt.Println(tui.ReflectionCalendar(r.Calendar))
	return nil
}

func reflected(days []view.ReflectionDay) int {
	n := 0
	for _, d := range days {
		if d.Reflection != nil {
			n++
		}
	}
	return n
}

func runStrip(cmd *cobra.Command, args []string) error {
	sess, m, err := load(cmd)
	if err != nil {
		return err
	}
	loc := m.Location()
	filtered := period.ApplyFacetFilters(m.Activities, facets(cmd))

	var from, to time.Time
	if len(filtered) > 0 {
		years := period.EnumeratePeriods(filtered, period.Year)
		latest, err := period.YearFromAny(years[len(years)-1])
		if err != nil {
			return err
		}
		from = time.Date(latest, time.January, 1, 0, 0, 0, 0, loc)
		to = time.Date(latest, time.December, 31, 0, 0, 0, 0, loc)
	}
	now := time.Now()
	if v, _ := cmd.Flags().GetString("from"); v != "" {
		if from, err = parseWhen(v, loc, now); err != nil {
			return err
		}
	}
	if v, _ := cmd.Flags().GetString("to"); v != "" {
		if to, err = parseWhen(v, loc, now); err != nil {
			return err
		}
	}
	if from.IsZero() || to.IsZero() {
		fmt.Println("No activities found.")
		return nil
	}

	f, err := m.Engine.Strip(from, to, filtered)
	if err != nil {
		return err
	}
	fmt.Printf("%s  %d days, %d activities\n\n", f.Key, len(f.Slots), len(f.Placements))
	fmt.Println(newCanvas(cmd, sess, m).Draw(f, m.Engine.Config().EnergySizing))
	return nil
}

func newCanvas(cmd *cobra.Command, sess *session, m view.Model) tui.Canvas {
	width, _ := cmd.Flags().GetInt("width")
	plain, _ := cmd.Flags().GetBool("plain")
	return tui.Canvas{
		Width:   width,
		Pillars: sess.taxonomy.Pillars,
		Sizing:  m.Engine.Config().Sizing,
		Plain:   plain,
	}
}

func printActivities(acts []activity.Activity, loc *time.Location) {
	for _, a := range acts {
		people := "alone"
		if !a.Solitary() {
			people = fmt.Sprint(a.People)
		}
		fmt.Printf("  %s %s–%s  %4dmin  %-8s %-16s energy %-4g %s  (%s)\n",
			a.Start.In(loc).Format("Mon 02 Jan"),
			a.Start.In(loc).Format("15:04"),
			a.End.In(loc).Format("15:04"),
			a.Duration,
			a.Pillar,
			a.Category,
			a.EnergyRating,
			a.Title,
			people,
		)
	}
	fmt.Printf("\nTotal: %s (%d activities)\n", formatMinutes(totalMinutes(acts)), len(acts))
}

func totalMinutes(acts []activity.Activity) int {
	total := 0
	for _, a := range acts {
		total += a.Duration
	}
	return total
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%dh %dmin", m/60, m%60)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
