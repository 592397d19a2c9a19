package period

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/timescape/internal/activity"
)

func at(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func act(id string, start time.Time, minutes int, pillar, category string) activity.Activity {
	return activity.Activity{
		ID:       id,
		Start:    start,
		End:      start.Add(time.Duration(minutes) * time.Minute),
		Duration: minutes,
		Pillar:   pillar,
		Category: category,
	}
}

func TestDayKeyStableUnderReparse(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	instants := []time.Time{
		time.Date(2024, 2, 29, 23, 59, 59, 0, loc),
		time.Date(2024, 3, 10, 2, 30, 0, 0, loc), // DST gap
		time.Date(2023, 1, 1, 0, 0, 0, 0, loc),
		time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC),
	}
	for _, ts := range instants {
		key := DayKey(ts)
		reparsed, err := time.ParseInLocation("2006-01-02T15:04:05", key+"T12:00:00", ts.Location())
		require.NoError(t, err)
		require.Equal(t, key, DayKey(reparsed))
	}
}

func TestWeekKeyBoundaries(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{at(2023, time.January, 1, 10, 0), "2022-W52"},
		{at(2027, time.January, 4, 10, 0), "2027-W01"},
		{at(2027, time.January, 1, 10, 0), "2026-W53"},
		{at(2024, time.December, 30, 10, 0), "2025-W01"},
		{at(2025, time.June, 1, 6, 0), "2025-W22"},
	}
	for _, tt := range tests {
		t.Run(tt.in.Format(DayLayout), func(t *testing.T) {
			require.Equal(t, tt.want, WeekKey(tt.in))
		})
	}
}

func TestMonthAndYearKeys(t *testing.T) {
	ts := at(2024, time.February, 29, 8, 0)
	require.Equal(t, "2024-02", MonthKey(ts))
	require.Equal(t, 2024, YearKey(ts))
	require.Equal(t, "2024", Year.KeyOf(ts))

	for _, v := range []any{2024, "2024", " 2024 ", float64(2024), int64(2024)} {
		y, err := YearFromAny(v)
		require.NoError(t, err)
		require.Equal(t, 2024, y)
	}
	_, err := YearFromAny("twenty")
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestParseKey(t *testing.T) {
	monday, err := ParseKey(Week, "2020-W53", time.UTC)
	require.NoError(t, err)
	require.Equal(t, at(2020, time.December, 28, 0, 0), monday)

	_, err = ParseKey(Week, "2021-W53", time.UTC)
	require.ErrorIs(t, err, ErrInvalidKey)

	_, err = ParseKey(Day, "2025-02-30", time.UTC)
	require.ErrorIs(t, err, ErrInvalidKey)

	start, end, err := Bounds(Month, "2024-02", time.UTC)
	require.NoError(t, err)
	require.Equal(t, at(2024, time.February, 1, 0, 0), start)
	require.Equal(t, at(2024, time.March, 1, 0, 0), end)

	_, err = ParseGranularity("fortnight")
	require.ErrorIs(t, err, ErrUnknownGranularity)
}

func TestShift(t *testing.T) {
	tests := []struct {
		g    Granularity
		key  string
		n    int
		want string
	}{
		{Day, "2024-02-28", 1, "2024-02-29"},
		{Week, "2022-W52", 1, "2023-W01"},
		{Month, "2024-12", 1, "2025-01"},
		{Year, "2024", -2, "2022"},
	}
	for _, tt := range tests {
		got, err := Shift(tt.g, tt.key, tt.n, time.UTC)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func TestPartitionCompleteness(t *testing.T) {
	var records []activity.Activity
	start := at(2025, time.March, 30, 22, 0)
	for i := 0; i < 40; i++ {
		records = append(records, act(fmt.Sprintf("a%d", i), start.Add(time.Duration(i*5)*time.Hour), 30, "work", "coding"))
	}
	// out of order on purpose
	records[0], records[39] = records[39], records[0]

	for _, g := range Granularities {
		seen := map[string]int{}
		keys := EnumeratePeriods(records, g)
		require.IsIncreasing(t, keys)
		for _, k := range keys {
			for _, r := range FilterByPeriod(records, g, k) {
				seen[r.ID]++
			}
		}
		require.Len(t, seen, len(records), g)
		for id, n := range seen {
			require.Equal(t, 1, n, "%s in %d %s buckets", id, n, g)
		}

		buckets := Partition(records, g)
		require.Len(t, buckets, len(keys))
		for i, b := range buckets {
			require.Equal(t, keys[i], b.Key)
		}
	}
}

func TestFilterPreservesInputOrder(t *testing.T) {
	records := []activity.Activity{
		act("late", at(2025, 6, 1, 20, 0), 30, "life", "cooking"),
		act("other-day", at(2025, 6, 2, 9, 0), 30, "work", "meeting"),
		act("early", at(2025, 6, 1, 7, 0), 30, "growth", "exercise"),
	}
	got := FilterByPeriod(records, Day, "2025-06-01")
	require.Len(t, got, 2)
	require.Equal(t, "late", got[0].ID)
	require.Equal(t, "early", got[1].ID)
	require.Equal(t, "late", records[0].ID)

	require.Len(t, FilterByPeriod(records, Year, " 2025"), 3)
	require.Empty(t, FilterByPeriod(records, Month, "2024-06"))
}

func TestUniqueKeysDoesNotMutate(t *testing.T) {
	records := []activity.Activity{
		act("b", at(2025, 7, 1, 9, 0), 10, "work", "email"),
		act("a", at(2025, 6, 1, 9, 0), 10, "work", "email"),
	}
	keys := UniqueKeys(records, func(a activity.Activity) string { return MonthKey(a.Start) })
	require.Equal(t, []string{"2025-06", "2025-07"}, keys)
	require.Equal(t, "b", records[0].ID)
}

func TestFacetFilterConjunction(t *testing.T) {
	records := []activity.Activity{
		act("1", at(2025, 6, 1, 9, 0), 60, "work", "meeting"),
		act("2", at(2025, 6, 1, 11, 0), 60, "work", "Exercise"),
		act("3", at(2025, 6, 1, 13, 0), 60, "life", "exercise"),
		act("4", at(2025, 6, 1, 15, 0), 60, "life", "meeting"),
	}

	byPillar := ApplyFacetFilters(records, Facets{Pillar: "work", Category: All})
	byCategory := ApplyFacetFilters(records, Facets{Pillar: All, Category: "exercise"})
	both := ApplyFacetFilters(records, Facets{Pillar: "work", Category: "EXERCISE"})

	require.Len(t, byPillar, 2)
	require.Len(t, byCategory, 2)
	require.Len(t, both, 1)
	require.Equal(t, "2", both[0].ID)

	reversed := ApplyFacetFilters(ApplyFacetFilters(records, Facets{Category: "exercise"}), Facets{Pillar: "work"})
	require.Equal(t, both, reversed)

	require.Len(t, ApplyFacetFilters(records, Facets{}), 4)
	require.Empty(t, ApplyFacetFilters(nil, Facets{Pillar: "work"}))
}

func TestNeighbors(t *testing.T) {
	keys := []string{"2025-01", "2025-03", "2025-04"}

	prev, next := Neighbors(keys, "2025-03")
	require.Equal(t, "2025-01", prev)
	require.Equal(t, "2025-04", next)

	prev, next = Neighbors(keys, "2025-02")
	require.Equal(t, "2025-01", prev)
	require.Equal(t, "2025-03", next)

	prev, next = Neighbors(keys, "2025-04")
	require.Equal(t, "2025-03", prev)
	require.Empty(t, next)
}

func TestNearest(t *testing.T) {
	keys := []string{"2025-01", "2025-03", "2025-04"}
	require.Equal(t, "2025-03", Nearest(keys, "2025-03"))
	require.Equal(t, "2025-01", Nearest(keys, "2025-02"))
	require.Equal(t, "2025-01", Nearest(keys, "2024-12"))
	require.Equal(t, "2025-04", Nearest(keys, "2025-09"))
	require.Equal(t, "2025-02", Nearest(nil, "2025-02"))
}

func TestDaysInYear(t *testing.T) {
	require.Len(t, DaysInYear(2024, time.UTC), 366)
	require.Len(t, DaysInYear(2025, time.UTC), 365)

	loc, err := time.LoadLocation("Europe/Stockholm")
	require.NoError(t, err)
	days := DaysInYear(2025, loc)
	require.Len(t, days, 365)
	require.Equal(t, "2025-03-30", DayKey(days[88]))

	require.Nil(t, DaysBetween(at(2025, 2, 1, 0, 0), at(2025, 1, 1, 0, 0)))
	require.Equal(t, 29, DaysInMonth(at(2024, 2, 10, 0, 0)))
	require.InDelta(t, 0.25, DayFraction(at(2025, 6, 1, 6, 0)), 1e-12)
}
