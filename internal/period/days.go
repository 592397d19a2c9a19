package period

import "time"

// Midnight truncates t to the start of its calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the midnight of every calendar day from from's day
// through to's day inclusive. It returns nil when to is before from.
func DaysBetween(from, to time.Time) []time.Time {
	first := Midnight(from)
	last := Midnight(to.In(from.Location()))
	if last.Before(first) {
		return nil
	}
	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DaysInYear returns every day of a calendar year.
func DaysInYear(year int, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.Local
	}
	return DaysBetween(
		time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
		time.Date(year, time.December, 31, 0, 0, 0, 0, loc),
	)
}

// DaysInMonth returns the number of days in the month containing t.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// DayFraction is the share of the calendar day elapsed at t, in [0, 1),
// measured on the wall clock so DST transitions do not skew it.
func DayFraction(t time.Time) float64 {
	h, m, s := t.Clock()
	wall := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(t.Nanosecond())
	return float64(wall) / float64(24*time.Hour)
}
