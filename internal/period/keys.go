// Package period maps instants to calendar buckets and filters activities by them.
//
// All key functions work in the location already attached to the time value:
// callers that want local calendar days convert with t.In(loc) first.
package period

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DayLayout   = "2006-01-02"
	MonthLayout = "2006-01"
)

var (
	// ErrUnknownGranularity is returned for granularity names outside day/week/month/year.
	ErrUnknownGranularity = errors.New("unknown granularity")
	// ErrInvalidKey is returned when a period identifier cannot be parsed.
	ErrInvalidKey = errors.New("invalid period key")
)

// Granularity is the size of a calendar bucket.
type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
	Year  Granularity = "year"
)

// Granularities lists every granularity from finest to coarsest.
var Granularities = []Granularity{Day, Week, Month, Year}

func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	switch g {
	case Day, Week, Month, Year:
		return g, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
}

// KeyOf returns the period identifier containing t.
func (g Granularity) KeyOf(t time.Time) string {
	switch g {
	case Day:
		return DayKey(t)
	case Week:
		return WeekKey(t)
	case Month:
		return MonthKey(t)
	case Year:
		return YearKeyString(t)
	}
	return ""
}

// DayKey returns YYYY-MM-DD for the calendar day of t.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// WeekKey returns the ISO-8601 week identifier YYYY-Www. The year is the
// year of the week's Thursday, so early January days can belong to the last
// week of the previous year.
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// MonthKey returns YYYY-MM.
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

// YearKey returns the calendar year.
func YearKey(t time.Time) int {
	return t.Year()
}

func YearKeyString(t time.Time) string {
	return strconv.Itoa(t.Year())
}

// YearFromAny accepts a year key as an integer or a string.
func YearFromAny(v any) (int, error) {
	switch y := v.(type) {
	case int:
		return y, nil
	case int64:
		return int(y), nil
	case float64:
		if y != float64(int(y)) {
			return 0, fmt.Errorf("%w: year %v", ErrInvalidKey, y)
		}
		return int(y), nil
	case json.Number:
		n, err := y.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: year %q", ErrInvalidKey, y.String())
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(y))
		if err != nil {
			return 0, fmt.Errorf("%w: year %q", ErrInvalidKey, y)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: year of type %T", ErrInvalidKey, v)
}

// NormalizeKey canonicalises a period identifier so that equivalent spellings
// ("2024" and " 2024") compare equal.
func NormalizeKey(g Granularity, key string) string {
	key = strings.TrimSpace(key)
	if g == Year {
		if y, err := YearFromAny(key); err == nil {
			return strconv.Itoa(y)
		}
	}
	return key
}

// ParseKey returns the first instant of the period identified by key.
func ParseKey(g Granularity, key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	key = strings.TrimSpace(key)

	switch g {
	case Day:
		t, err := time.ParseInLocation(DayLayout, key, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
		return t, nil
	case Month:
		t, err := time.ParseInLocation(MonthLayout, key, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
		return t, nil
	case Year:
		y, err := YearFromAny(key)
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc), nil
	case Week:
		return parseWeekKey(key, loc)
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownGranularity, g)
}

// parseWeekKey returns the Monday that starts an ISO week.
func parseWeekKey(key string, loc *time.Location) (time.Time, error) {
	yearPart, weekPart, ok := strings.Cut(key, "-W")
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	week, err := strconv.Atoi(weekPart)
	if err != nil || week < 1 || week > 53 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	// January 4th is always in week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	sinceMonday := (int(jan4.Weekday()) + 6) % 7
	monday := jan4.AddDate(0, 0, -sinceMonday+(week-1)*7)

	if WeekKey(monday) != fmt.Sprintf("%04d-W%02d", year, week) {
		return time.Time{}, fmt.Errorf("%w: %q has no such week", ErrInvalidKey, key)
	}
	return monday, nil
}

// Bounds returns the half-open interval [start, end) covered by a period.
func Bounds(g Granularity, key string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := ParseKey(g, key, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, advance(g, start, 1), nil
}

// Shift returns the identifier n periods after key (n may be negative).
func Shift(g Granularity, key string, n int, loc *time.Location) (string, error) {
	start, err := ParseKey(g, key, loc)
	if err != nil {
		return "", err
	}
	return g.KeyOf(advance(g, start, n)), nil
}

func advance(g Granularity, t time.Time, n int) time.Time {
	switch g {
	case Day:
		return t.AddDate(0, 0, n)
	case Week:
		return t.AddDate(0, 0, 7*n)
	case Month:
		return t.AddDate(0, n, 0)
	case Year:
		return t.AddDate(n, 0, 0)
	}
	return t
}
