// Package normalize turns raw source records into canonical activities.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/christopherklint97/timescape/internal/activity"
)

var (
	// ErrUnsupportedFormat is returned for source format tags the normalizer does not know.
	ErrUnsupportedFormat = errors.New("unsupported source format")
	// ErrMalformedTimestamp marks records whose start or end cannot be parsed.
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)

// Format tags an ingestion variant.
type Format string

const (
	FormatCanonical Format = "canonical"
	FormatJournal   Format = "journal"
)

// Formats lists every supported format.
var Formats = []Format{FormatCanonical, FormatJournal}

func ParseFormat(tag string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(tag)))
	switch f {
	case FormatCanonical, FormatJournal:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, tag)
}

// Batch is a set of raw records of one format. The only implementations are
// CanonicalBatch and JournalBatch.
type Batch interface {
	Format() Format
	Len() int
	sealed()
}

// CanonicalRecord is a record already in the canonical shape, with
// timestamps still as text.
type CanonicalRecord struct {
	ID           string   `json:"id,omitempty"`
	Title        string   `json:"title"`
	Start        string   `json:"start" jsonschema:"description=ISO-8601 timestamp; zoneless values use the configured timezone"`
	End          string   `json:"end,omitempty" jsonschema:"description=ISO-8601 timestamp; derived from duration when absent"`
	Duration     int      `json:"duration,omitempty" jsonschema:"description=minutes"`
	Category     string   `json:"category"`
	Pillar       string   `json:"pillar,omitempty" jsonschema:"description=ignored; the pillar is always derived from category"`
	EnergyRating float64  `json:"energyRating"`
	Reflection   string   `json:"reflection,omitempty"`
	People       []string `json:"people,omitempty"`
	Place        string   `json:"place,omitempty"`
	Source       string   `json:"source,omitempty"`
}

// JournalRecord is the hand-kept journal shape: a date, a time of day and a
// duration instead of two timestamps.
type JournalRecord struct {
	ID              string  `json:"id,omitempty"`
	Date            string  `json:"date" jsonschema:"description=YYYY-MM-DD"`
	StartTime       string  `json:"startTime" jsonschema:"description=HH:MM or HH:MM:SS"`
	DurationMinutes int     `json:"durationMinutes"`
	Activity        string  `json:"activity"`
	Category        string  `json:"category"`
	EnergyLevel     float64 `json:"energyLevel"`
	With            string  `json:"with,omitempty" jsonschema:"description=participant name or Alone"`
	Location        string  `json:"location,omitempty"`
	Reflection      string  `json:"reflection,omitempty"`
}

type CanonicalBatch struct {
	Records []CanonicalRecord
}

func (CanonicalBatch) Format() Format { return FormatCanonical }
func (b CanonicalBatch) Len() int    { return len(b.Records) }
func (CanonicalBatch) sealed()       {}

type JournalBatch struct {
	Records []JournalRecord
}

func (JournalBatch) Format() Format { return FormatJournal }
func (b JournalBatch) Len() int    { return len(b.Records) }
func (JournalBatch) sealed()       {}

// Decode parses a JSON document of the given format. The document is either
// an array of records or an object with an "activities" array.
func Decode(tag string, data []byte) (Batch, error) {
	format, err := ParseFormat(tag)
	if err != nil {
		return nil, err
	}

	raw, err := recordsArray(data)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatCanonical:
		var records []CanonicalRecord
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("parsing canonical records: %w", err)
		}
		return CanonicalBatch{Records: records}, nil
	case FormatJournal:
		var records []JournalRecord
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("parsing journal records: %w", err)
		}
		return JournalBatch{Records: records}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, tag)
}

func recordsArray(data []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed, nil
	}
	var wrapper struct {
		Activities json.RawMessage `json:"activities"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, fmt.Errorf("parsing dataset envelope: %w", err)
	}
	if len(wrapper.Activities) == 0 {
		return json.RawMessage("[]"), nil
	}
	return wrapper.Activities, nil
}

// FromActivities converts canonical activities back into raw canonical
// records, e.g. to re-normalize them under another taxonomy.
func FromActivities(acts []activity.Activity) CanonicalBatch {
	records := make([]CanonicalRecord, len(acts))
	for i, a := range acts {
		records[i] = CanonicalRecord{
			ID:           a.ID,
			Title:        a.Title,
			Start:        a.Start.Format(time.RFC3339Nano),
			End:          a.End.Format(time.RFC3339Nano),
			Duration:     a.Duration,
			Category:     a.Category,
			Pillar:       a.Pillar,
			EnergyRating: a.EnergyRating,
			Reflection:   a.Reflection,
			People:       append([]string(nil), a.People...),
			Place:        a.Place,
			Source:       a.Source,
		}
	}
	return CanonicalBatch{Records: records}
}
