package layout

import (
	"fmt"
	"strconv"
	"time"

	"github.com/christopherklint97/timescape/internal/activity"
	"github.com/christopherklint97/timescape/internal/period"
)

// Day lays out one calendar day on a single 24h axis.
func (e *Engine) Day(key string, acts []activity.Activity) (*Frame, error) {
	start, end, err := period.Bounds(period.Day, key, e.loc)
	if err != nil {
		return nil, err
	}

	f := &Frame{Kind: FrameDay, Key: period.DayKey(start), Start: start, End: end, Rows: 1, Columns: 1}
	f.Slots = []Slot{{Day: f.Key, Rect: Rect{Width: 1, Height: 1}}}

	admitted, excluded := e.admit(acts, start, end)
	f.Excluded = excluded
	for _, a := range admitted {
		frac, extent := e.intraday(a)
		f.Placements = append(f.Placements, Placement{
			Activity: a,
			Rect: Rect{
				Left:       frac,
				Width:      e.floor(extent),
				Height:     1,
				VisualSize: e.visualSize(FrameDay, a),
			},
		})
	}
	return f, nil
}

// Week lays out an ISO week as seven day slots ordered by weekday index,
// Sunday first.
func (e *Engine) Week(key string, acts []activity.Activity) (*Frame, error) {
	start, end, err := period.Bounds(period.Week, key, e.loc)
	if err != nil {
		return nil, err
	}

	f := &Frame{Kind: FrameWeek, Key: period.WeekKey(start), Start: start, End: end, Rows: 1, Columns: 7}
	f.Slots = make([]Slot, 7)
	for _, d := range period.DaysBetween(start, end.AddDate(0, 0, -1)) {
		i := int(d.Weekday())
		f.Slots[i] = Slot{Index: i, Day: period.DayKey(d), Col: i, Rect: Rect{Left: float64(i) / 7, Width: 1.0 / 7, Height: 1}}
	}

	admitted, excluded := e.admit(acts, start, end)
	f.Excluded = excluded
	for _, a := range admitted {
		i := int(a.Start.In(e.loc).Weekday())
		frac, extent := e.intraday(a)
		f.Placements = append(f.Placements, Placement{
			Activity: a,
			Slot:     i,
			Rect: Rect{
				Left:       (float64(i) + frac) / 7,
				Width:      e.floor(extent / 7),
				Height:     1,
				VisualSize: e.visualSize(FrameWeek, a),
			},
		})
	}
	return f, nil
}

// Month lays out a calendar month as Sunday-first week rows. Rows at either
// end of the month may hold fewer than seven days; a row's day slots always
// share its full width.
func (e *Engine) Month(key string, acts []activity.Activity) (*Frame, error) {
	start, end, err := period.Bounds(period.Month, key, e.loc)
	if err != nil {
		return nil, err
	}

	days := period.DaysBetween(start, end.AddDate(0, 0, -1))
	var rows [][]int // day-of-month indices per row
	for i, d := range days {
		if i == 0 || d.Weekday() == time.Sunday {
			rows = append(rows, nil)
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], i)
	}

	f := &Frame{Kind: FrameMonth, Key: period.MonthKey(start), Start: start, End: end, Rows: len(rows), Columns: 7}
	type pos struct{ row, col, width int }
	where := make([]pos, len(days))
	for r, row := range rows {
		for c, i := range row {
			where[i] = pos{row: r, col: c, width: len(row)}
			f.Slots = append(f.Slots, Slot{
				Index: i,
				Day:   period.DayKey(days[i]),
				Row:   r,
				Col:   c,
				Rect: Rect{
					Left:   float64(c) / float64(len(row)),
					Top:    float64(r) / float64(len(rows)),
					Width:  1 / float64(len(row)),
					Height: 1 / float64(len(rows)),
				},
			})
		}
	}

	admitted, excluded := e.admit(acts, start, end)
	f.Excluded = excluded
	for _, a := range admitted {
		i := a.Start.In(e.loc).Day() - 1
		p := where[i]
		frac, extent := e.intraday(a)
		rowDays := float64(p.width)
		f.Placements = append(f.Placements, Placement{
			Activity: a,
			Slot:     i,
			Rect: Rect{
				Left:       (float64(p.col) + frac) / rowDays,
				Top:        float64(p.row) / float64(len(rows)),
				Width:      e.floor(extent / rowDays),
				Height:     1 / float64(len(rows)),
				VisualSize: e.visualSize(FrameMonth, a),
			},
		})
	}
	return f, nil
}

// Year lays out a calendar year as twelve month columns. Inside a column
// the time axis runs top to bottom over the days of that month.
func (e *Engine) Year(key string, acts []activity.Activity) (*Frame, error) {
	start, end, err := period.Bounds(period.Year, key, e.loc)
	if err != nil {
		return nil, err
	}

	f := &Frame{Kind: FrameYear, Key: strconv.Itoa(start.Year()), Start: start, End: end, Rows: 31, Columns: 12}
	for i, d := range period.DaysBetween(start, end.AddDate(0, 0, -1)) {
		col := int(d.Month()) - 1
		dim := float64(period.DaysInMonth(d))
		f.Slots = append(f.Slots, Slot{
			Index: i,
			Day:   period.DayKey(d),
			Row:   d.Day() - 1,
			Col:   col,
			Rect: Rect{
				Left:   float64(col) / 12,
				Top:    float64(d.Day()-1) / dim,
				Width:  1.0 / 12,
				Height: 1 / dim,
			},
		})
	}

	admitted, excluded := e.admit(acts, start, end)
	f.Excluded = excluded
	for _, a := range admitted {
		local := a.Start.In(e.loc)
		col := int(local.Month()) - 1
		dim := float64(period.DaysInMonth(local))
		frac, extent := e.intraday(a)
		f.Placements = append(f.Placements, Placement{
			Activity: a,
			Slot:     local.YearDay() - 1,
			Rect: Rect{
				Left:       float64(col) / 12,
				Top:        (float64(local.Day()-1) + frac) / dim,
				Width:      1.0 / 12,
				Height:     max(e.floor(extent/dim), e.cfg.YearMinExtent),
				VisualSize: e.visualSize(FrameYear, a),
			},
		})
	}
	return f, nil
}

// Strip lays out every day from from's day through to's day as fixed-width
// slots wrapped into rows of SlotsPerRow. Inside a slot the time axis runs
// top to bottom. Slots starting a new month or year carry a label.
func (e *Engine) Strip(from, to time.Time, acts []activity.Activity) (*Frame, error) {
	days := period.DaysBetween(from.In(e.loc), to.In(e.loc))
	if len(days) == 0 {
		return nil, fmt.Errorf("strip range %s to %s is empty", period.DayKey(from), period.DayKey(to))
	}

	n := e.cfg.SlotsPerRow
	rows := (len(days) + n - 1) / n
	start, end := days[0], days[len(days)-1].AddDate(0, 0, 1)

	f := &Frame{
		Kind:    FrameStrip,
		Key:     period.DayKey(start) + "/" + period.DayKey(days[len(days)-1]),
		Start:   start,
		End:     end,
		Rows:    rows,
		Columns: n,
	}

	index := make(map[string]int, len(days))
	for i, d := range days {
		s := Slot{
			Index: i,
			Day:   period.DayKey(d),
			Row:   i / n,
			Col:   i % n,
			Rect: Rect{
				Left:   float64(i%n) / float64(n),
				Top:    float64(i/n) / float64(rows),
				Width:  1 / float64(n),
				Height: 1 / float64(rows),
			},
		}
		if i == 0 || d.Day() == 1 {
			s.MonthLabel = d.Month().String()[:3]
		}
		if i == 0 || d.YearDay() == 1 {
			s.YearLabel = strconv.Itoa(d.Year())
		}
		index[s.Day] = i
		f.Slots = append(f.Slots, s)
	}

	admitted, excluded := e.admit(acts, start, end)
	f.Excluded = excluded
	for _, a := range admitted {
		i := index[period.DayKey(a.Start.In(e.loc))]
		frac, extent := e.intraday(a)
		f.Placements = append(f.Placements, Placement{
			Activity: a,
			Slot:     i,
			Rect: Rect{
				Left:       float64(i%n) / float64(n),
				Top:        (float64(i/n) + frac) / float64(rows),
				Width:      1 / float64(n),
				Height:     e.floor(extent / float64(rows)),
				VisualSize: e.visualSize(FrameStrip, a),
			},
		})
	}
	return f, nil
}

// StripYears lays out whole calendar years as one strip.
func (e *Engine) StripYears(firstYear, lastYear int, acts []activity.Activity) (*Frame, error) {
	return e.Strip(
		time.Date(firstYear, time.January, 1, 0, 0, 0, 0, e.loc),
		time.Date(lastYear, time.December, 31, 0, 0, 0, 0, e.loc),
		acts,
	)
}
