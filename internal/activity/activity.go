// Package activity defines the canonical records every other package works on.
package activity

import "time"

// Activity is one tracked block of time in the canonical schema.
type Activity struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Duration     int       `json:"duration"` // minutes
	Category     string    `json:"category"`
	Pillar       string    `json:"pillar"`
	EnergyRating float64   `json:"energyRating"`
	Reflection   string    `json:"reflection,omitempty"`
	People       []string  `json:"people"`
	Place        string    `json:"place,omitempty"`
	Source       string    `json:"source,omitempty"`
}

// Valid reports whether the activity has usable timestamps (end after start).
func (a Activity) Valid() bool {
	return !a.Start.IsZero() && !a.End.IsZero() && a.End.After(a.Start)
}

// Solitary reports whether nobody else took part.
func (a Activity) Solitary() bool {
	return len(a.People) == 0
}

// Span returns End - Start.
func (a Activity) Span() time.Duration {
	return a.End.Sub(a.Start)
}

// DurationMinutes rounds a span to whole minutes.
func DurationMinutes(d time.Duration) int {
	return int(d.Round(time.Minute) / time.Minute)
}
