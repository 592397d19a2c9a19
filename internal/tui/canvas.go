package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/christopherklint97/timescape/internal/layout"
)

const (
	styleNone = -1
	styleDim  = -2
)

type cell struct {
	r     rune
	style int
}

// Canvas draws a layout frame as character cells. Each placement becomes a
// block coloured by pillar and shaded by energy.
type Canvas struct {
	Width   int
	Pillars []string
	Sizing  map[layout.FrameKind]layout.Sizing
	Plain   bool
}

// rows per frame row; the day axis of each frame kind decides how much
// vertical room a placement gets
func rowHeight(kind layout.FrameKind) int {
	switch kind {
	case layout.FrameDay:
		return 3
	case layout.FrameWeek:
		return 5
	case layout.FrameMonth:
		return 2
	case layout.FrameYear:
		return 1
	}
	return 4
}

func (c Canvas) Draw(f *layout.Frame, energySizing bool) string {
	if f == nil {
		return ""
	}
	width := max(c.Width, 12)
	rows := max(f.Rows, 1)
	height := rows * rowHeight(f.Kind)

	grid := make([][]cell, height)
	for y := range grid {
		grid[y] = make([]cell, width)
		for x := range grid[y] {
			grid[y][x] = cell{r: ' ', style: styleNone}
		}
	}

	labels := make(map[int][]rune)
	label := func(y, x int, text string) {
		line, ok := labels[y]
		if !ok {
			line = []rune(strings.Repeat(" ", width))
			labels[y] = line
		}
		for i, r := range text {
			if x+i < width {
				line[x+i] = r
			}
		}
	}

	for _, s := range f.Slots {
		x0, _ := span(s.Rect.Left, s.Rect.Width, width)
		y0, _ := span(s.Rect.Top, s.Rect.Height, height)
		if x0 > 0 && f.Kind != layout.FrameYear {
			for y := y0; y < min(y0+rowHeight(f.Kind), height); y++ {
				grid[y][x0] = cell{r: '┊', style: styleDim}
			}
		}
		switch f.Kind {
		case layout.FrameWeek, layout.FrameMonth:
			label(y0, x0, dayOfMonth(s.Day))
		case layout.FrameYear:
			if s.Row == 0 {
				label(0, x0, monthAbbrev(s.Col))
			}
			grid[y0][x0] = cell{r: '·', style: styleDim}
		case layout.FrameStrip:
			text := s.MonthLabel
			if s.YearLabel != "" {
				text = s.YearLabel + " " + s.MonthLabel
			}
			if text != "" {
				label(y0, x0, text)
			}
		}
	}
	if f.Kind == layout.FrameDay {
		for _, h := range []int{0, 6, 12, 18} {
			x, _ := span(float64(h)/24, 0, width)
			label(0, x, fmt.Sprintf("%02d:00", h))
		}
	}

	index := make(map[string]int, len(c.Pillars))
	for i, p := range c.Pillars {
		index[p] = i
	}
	sizing := c.Sizing[f.Kind]
	for _, p := range f.Placements {
		x0, x1 := span(p.Rect.Left, p.Rect.Width, width)
		y0, y1 := span(p.Rect.Top, p.Rect.Height, height)
		style, ok := index[p.Activity.Pillar]
		if !ok {
			style = len(c.Pillars)
		}
		glyph := shade(p.Rect.VisualSize, sizing, energySizing)
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				grid[y][x] = cell{r: glyph, style: style}
			}
		}
	}

	var b strings.Builder
	for y, line := range grid {
		if l, ok := labels[y]; ok {
			b.WriteString(c.paint(strings.TrimRight(string(l), " "), styleDim))
			b.WriteByte('\n')
		}
		c.writeRow(&b, line)
		if y < len(grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// span maps a fraction interval onto n cells, always covering at least one.
func span(start, extent float64, n int) (int, int) {
	a := int(math.Floor(start * float64(n)))
	b := int(math.Ceil((start + extent) * float64(n)))
	a = min(max(a, 0), n-1)
	b = min(max(b, a+1), n)
	return a, b
}

// shade picks a block glyph from the energy fraction a visual size encodes.
func shade(visual float64, s layout.Sizing, energySizing bool) rune {
	if !energySizing || s.MaxRange == 0 {
		return '█'
	}
	switch level := (visual - s.BaseOffset) / s.MaxRange; {
	case level >= 0.7:
		return '█'
	case level >= 0.4:
		return '▓'
	default:
		return '░'
	}
}

func (c Canvas) writeRow(b *strings.Builder, line []cell) {
	start := 0
	for i := 1; i <= len(line); i++ {
		if i < len(line) && line[i].style == line[start].style {
			continue
		}
		run := make([]rune, 0, i-start)
		for _, cl := range line[start:i] {
			run = append(run, cl.r)
		}
		b.WriteString(c.paint(string(run), line[start].style))
		start = i
	}
}

func (c Canvas) paint(s string, style int) string {
	if c.Plain || style == styleNone {
		return s
	}
	if style == styleDim {
		return dimStyle.Render(s)
	}
	return pillarStyle(style).Render(s)
}

func dayOfMonth(day string) string {
	if len(day) < 10 {
		return ""
	}
	return strings.TrimPrefix(day[8:10], "0")
}

func monthAbbrev(col int) string {
	return []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}[col%12]
}

// Legend lists the pillar colours.
func (c Canvas) Legend() string {
	parts := make([]string, len(c.Pillars))
	for i, p := range c.Pillars {
		parts[i] = c.paint("█", i) + " " + p
	}
	return strings.Join(parts, "  ")
}
