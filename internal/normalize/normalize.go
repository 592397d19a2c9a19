package normalize

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/christopherklint97/timescape/internal/activity"
	"github.com/christopherklint97/timescape/internal/pillar"
)

// SolitudeSentinel is the journal "with" value meaning nobody else was there.
const SolitudeSentinel = "Alone"

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/christopherklint97/timescape"))

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Rejection records a raw record that could not be normalized.
type Rejection struct {
	Index int
	ID    string
	Err   error
}

func (r Rejection) Error() string {
	if r.ID != "" {
		return fmt.Sprintf("record %d (%s): %v", r.Index, r.ID, r.Err)
	}
	return fmt.Sprintf("record %d: %v", r.Index, r.Err)
}

func (r Rejection) Unwrap() error { return r.Err }

// Result is the outcome of normalizing one batch.
type Result struct {
	Activities []activity.Activity
	Rejected   []Rejection
}

// Normalizer converts batches using an injected taxonomy and timezone.
type Normalizer struct {
	taxonomy *pillar.Taxonomy
	loc      *time.Location
	logger   *slog.Logger
}

// New creates a Normalizer. A nil taxonomy uses the default built-in, a nil
// location uses time.Local and a nil logger discards output.
func New(taxonomy *pillar.Taxonomy, loc *time.Location, logger *slog.Logger) *Normalizer {
	if taxonomy == nil {
		taxonomy = pillar.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Normalizer{taxonomy: taxonomy, loc: loc, logger: logger}
}

// Normalize converts every record of b. Records with unparseable timestamps
// are returned in Result.Rejected; records whose end is not after their start
// are kept so bucketing still sees them.
func (n *Normalizer) Normalize(b Batch) (*Result, error) {
	var res Result
	switch b := b.(type) {
	case CanonicalBatch:
		res = n.canonical(b)
	case JournalBatch:
		res = n.journal(b)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedFormat, b)
	}

	dedupeIDs(res.Activities)

	for _, r := range res.Rejected {
		n.logger.Warn("rejected record", "format", b.Format(), "index", r.Index, "id", r.ID, "error", r.Err)
	}
	n.logger.Debug("normalized batch",
		"format", b.Format(),
		"records", b.Len(),
		"activities", len(res.Activities),
		"rejected", len(res.Rejected),
		"taxonomy", n.taxonomy.Version,
	)
	return &res, nil
}

func (n *Normalizer) canonical(b CanonicalBatch) Result {
	var res Result
	res.Activities = make([]activity.Activity, 0, len(b.Records))

	for i, r := range b.Records {
		start, err := n.parseTimestamp(r.Start)
		if err != nil {
			res.Rejected = append(res.Rejected, Rejection{Index: i, ID: r.ID, Err: fmt.Errorf("start: %w", err)})
			continue
		}

		var end time.Time
		switch {
		case r.End != "":
			end, err = n.parseTimestamp(r.End)
			if err != nil {
				res.Rejected = append(res.Rejected, Rejection{Index: i, ID: r.ID, Err: fmt.Errorf("end: %w", err)})
				continue
			}
		case r.Duration > 0:
			end = start.Add(time.Duration(r.Duration) * time.Minute)
		default:
			res.Rejected = append(res.Rejected, Rejection{Index: i, ID: r.ID, Err: fmt.Errorf("%w: no end and no duration", ErrMalformedTimestamp)})
			continue
		}

		duration := r.Duration
		if end.After(start) {
			duration = max(1, activity.DurationMinutes(end.Sub(start)))
		}

		category := normalizeCategory(r.Category)
		a := activity.Activity{
			ID:           r.ID,
			Title:        strings.TrimSpace(r.Title),
			Start:        start,
			End:          end,
			Duration:     duration,
			Category:     category,
			Pillar:       n.taxonomy.Classify(category),
			EnergyRating: r.EnergyRating,
			Reflection:   strings.TrimSpace(r.Reflection),
			People:       cleanPeople(r.People),
			Place:        strings.TrimSpace(r.Place),
			Source:       r.Source,
		}
		if a.Source == "" {
			a.Source = string(FormatCanonical)
		}
		if a.ID == "" {
			a.ID = deriveID(start.Format(time.RFC3339), a.Title)
		}
		if r.Pillar != "" && r.Pillar != a.Pillar {
			n.logger.Debug("source pillar overridden", "id", a.ID, "source_pillar", r.Pillar, "pillar", a.Pillar)
		}
		res.Activities = append(res.Activities, a)
	}
	return res
}

func (n *Normalizer) journal(b JournalBatch) Result {
	var res Result
	res.Activities = make([]activity.Activity, 0, len(b.Records))

	for i, r := range b.Records {
		start, err := n.parseDateTime(r.Date, r.StartTime)
		if err != nil {
			res.Rejected = append(res.Rejected, Rejection{Index: i, ID: r.ID, Err: err})
			continue
		}

		category := normalizeCategory(r.Category)
		title := strings.TrimSpace(r.Activity)
		a := activity.Activity{
			ID:           r.ID,
			Title:        title,
			Start:        start,
			End:          start.Add(time.Duration(r.DurationMinutes) * time.Minute),
			Duration:     r.DurationMinutes,
			Category:     category,
			Pillar:       n.taxonomy.Classify(category),
			EnergyRating: math.Round(r.EnergyLevel),
			Reflection:   strings.TrimSpace(r.Reflection),
			People:       journalPeople(r.With),
			Place:        strings.TrimSpace(r.Location),
			Source:       string(FormatJournal),
		}
		if a.ID == "" {
			a.ID = deriveID(r.Date+"T"+r.StartTime, title)
		}
		res.Activities = append(res.Activities, a)
	}
	return res
}

func (n *Normalizer) parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrMalformedTimestamp)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, n.loc); err == nil {
			return t.In(n.loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
}

func (n *Normalizer) parseDateTime(date, clock string) (time.Time, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, date+" "+clock, n.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q time %q", ErrMalformedTimestamp, date, clock)
}

func normalizeCategory(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

func cleanPeople(people []string) []string {
	out := make([]string, 0, len(people))
	for _, p := range people {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func journalPeople(with string) []string {
	with = strings.TrimSpace(with)
	if with == "" || strings.EqualFold(with, SolitudeSentinel) {
		return []string{}
	}
	return []string{with}
}

func deriveID(parts ...string) string {
	return uuid.NewSHA1(idNamespace, []byte(strings.Join(parts, "|"))).String()
}

// Normalize converts b with the given taxonomy in the local timezone.
func Normalize(b Batch, taxonomy *pillar.Taxonomy) (*Result, error) {
	return New(taxonomy, nil, nil).Normalize(b)
}

// dedupeIDs renames repeated IDs to id-N, skipping suffixes any record
// already uses.
func dedupeIDs(acts []activity.Activity) {
	taken := make(map[string]bool, len(acts))
	for _, a := range acts {
		taken[a.ID] = true
	}
	seen := make(map[string]int, len(acts))
	for i := range acts {
		id := acts[i].ID
		seen[id]++
		if seen[id] == 1 {
			continue
		}
		n := seen[id]
		for taken[id+"-"+strconv.Itoa(n)] {
			n++
		}
		acts[i].ID = id + "-" + strconv.Itoa(n)
		taken[acts[i].ID] = true
	}
}
