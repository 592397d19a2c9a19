// Package layout computes where each activity sits inside a period's frame.
//
// Every coordinate is a fraction of the frame (0 = left/top edge, 1 =
// right/bottom edge); the renderer multiplies by its own pixel size.
package layout

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/christopherklint97/timescape/internal/activity"
	"github.com/christopherklint97/timescape/internal/period"
)

var (
	// ErrInvalidSpan marks activities whose end is not after their start.
	ErrInvalidSpan = errors.New("end is not after start")
	// ErrOutsideFrame marks activities that start outside the requested period.
	ErrOutsideFrame = errors.New("starts outside the frame")
)

// FrameKind identifies one of the period shapes.
type FrameKind string

const (
	FrameDay   FrameKind = "day"
	FrameWeek  FrameKind = "week"
	FrameMonth FrameKind = "month"
	FrameYear  FrameKind = "year"
	FrameStrip FrameKind = "strip"
)

// Rect is a placement in frame fractions plus the energy-driven size.
type Rect struct {
	Left       float64 `json:"left"`
	Top        float64 `json:"top"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	VisualSize float64 `json:"visualSize"`
}

// Placement ties an activity to its rectangle and the day slot holding it.
type Placement struct {
	Activity activity.Activity `json:"activity"`
	Rect     Rect              `json:"rect"`
	Slot     int               `json:"slot"`
}

// Slot is one day-sized sub-bucket of a frame.
type Slot struct {
	Index      int    `json:"index"`
	Day        string `json:"day"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	Rect       Rect   `json:"rect"`
	MonthLabel string `json:"monthLabel,omitempty"`
	YearLabel  string `json:"yearLabel,omitempty"`
}

// Exclusion reports an activity left out of the layout.
type Exclusion struct {
	ID  string `json:"id"`
	Err error  `json:"-"`
}

func (e Exclusion) Error() string { return fmt.Sprintf("%s: %v", e.ID, e.Err) }
func (e Exclusion) Unwrap() error { return e.Err }

// Frame is the computed layout of one period.
type Frame struct {
	Kind       FrameKind   `json:"kind"`
	Key        string      `json:"key"`
	Start      time.Time   `json:"start"`
	End        time.Time   `json:"end"`
	Rows       int         `json:"rows"`
	Columns    int         `json:"columns"`
	Slots      []Slot      `json:"slots"`
	Placements []Placement `json:"placements"`
	Excluded   []Exclusion `json:"-"`
}

// Sizing is the energy interpolation for one frame kind.
type Sizing struct {
	BaseOffset float64 `toml:"base_offset" json:"baseOffset"`
	MaxRange   float64 `toml:"max_range" json:"maxRange"`
}

// VisualSize maps an energy rating to a size. With sizing enabled it is
// baseOffset + energy/10*maxRange; ratings outside 1-10 are extrapolated,
// not clamped. Disabled, it is the fixed size.
func VisualSize(energy float64, enabled bool, s Sizing, fixed float64) float64 {
	if !enabled {
		return fixed
	}
	return s.BaseOffset + (energy/10)*s.MaxRange
}

// Config holds the layout parameters. MinExtent floors every extent as a
// fraction of the frame; YearMinExtent additionally floors year placements as
// a fraction of their month column.
type Config struct {
	MinExtent     float64
	YearMinExtent float64
	SlotsPerRow   int
	EnergySizing  bool
	FixedSize     float64
	Sizing        map[FrameKind]Sizing
}

func DefaultConfig() Config {
	return Config{
		MinExtent:     0.003,
		YearMinExtent: 0.01,
		SlotsPerRow:   30,
		EnergySizing:  true,
		FixedSize:     60,
		Sizing: map[FrameKind]Sizing{
			FrameDay:   {BaseOffset: 10, MaxRange: 200},
			FrameWeek:  {BaseOffset: 10, MaxRange: 160},
			FrameMonth: {BaseOffset: 10, MaxRange: 30},
			FrameYear:  {BaseOffset: 10, MaxRange: 140},
			FrameStrip: {BaseOffset: 10, MaxRange: 140},
		},
	}
}

// Engine lays out frames. It holds no state between calls.
type Engine struct {
	cfg Config
	loc *time.Location
}

func New(cfg Config, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	if cfg.SlotsPerRow <= 0 {
		cfg.SlotsPerRow = DefaultConfig().SlotsPerRow
	}
	if cfg.Sizing == nil {
		cfg.Sizing = DefaultConfig().Sizing
	}
	return &Engine{cfg: cfg, loc: loc}
}

// WithEnergySizing returns a copy of e with energy-driven sizing switched.
func (e *Engine) WithEnergySizing(on bool) *Engine {
	c := *e
	c.cfg.EnergySizing = on
	return &c
}

func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) Location() *time.Location { return e.loc }

// ForGranularity lays out a period using the frame matching its granularity.
func (e *Engine) ForGranularity(g period.Granularity, key string, acts []activity.Activity) (*Frame, error) {
	switch g {
	case period.Day:
		return e.Day(key, acts)
	case period.Week:
		return e.Week(key, acts)
	case period.Month:
		return e.Month(key, acts)
	case period.Year:
		return e.Year(key, acts)
	}
	return nil, fmt.Errorf("%w: %q", period.ErrUnknownGranularity, g)
}

// intraday returns where a starts within its day and how much of the day it
// covers, clipped at midnight.
func (e *Engine) intraday(a activity.Activity) (frac, extent float64) {
	start := a.Start.In(e.loc)
	frac = period.DayFraction(start)
	extent = float64(a.Span()) / float64(24*time.Hour)
	return frac, min(extent, 1-frac)
}

func (e *Engine) floor(x float64) float64 {
	return max(x, e.cfg.MinExtent)
}

func (e *Engine) visualSize(kind FrameKind, a activity.Activity) float64 {
	return VisualSize(a.EnergyRating, e.cfg.EnergySizing, e.cfg.Sizing[kind], e.cfg.FixedSize)
}

// admit splits activities into those usable inside [start, end) and the
// exclusions, ordered by start time.
func (e *Engine) admit(acts []activity.Activity, start, end time.Time) ([]activity.Activity, []Exclusion) {
	var ok []activity.Activity
	var excluded []Exclusion
	for _, a := range acts {
		switch {
		case !a.Valid():
			excluded = append(excluded, Exclusion{ID: a.ID, Err: ErrInvalidSpan})
		case a.Start.Before(start) || !a.Start.Before(end):
			excluded = append(excluded, Exclusion{ID: a.ID, Err: ErrOutsideFrame})
		default:
			ok = append(ok, a)
		}
	}
	sort.SliceStable(ok, func(i, j int) bool {
		if !ok[i].Start.Equal(ok[j].Start) {
			return ok[i].Start.Before(ok[j].Start)
		}
		return ok[i].ID < ok[j].ID
	})
	return ok, excluded
}
