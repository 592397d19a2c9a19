package dataset

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	ical "github.com/emersion/go-ical"

	"github.com/christopherklint97/timescape/internal/normalize"
)

const (
	// propEnergy is a non-standard event property carrying the energy rating.
	propEnergy = "X-ENERGY"

	defaultEnergy = 5
	sourceICal    = "ical"
)

// ReadCalendar converts every VEVENT into a canonical record. Floating times
// are read in loc. Events whose DTSTART cannot be read keep an empty start so
// the normalizer rejects and counts them.
func ReadCalendar(r io.Reader, loc *time.Location) ([]normalize.CanonicalRecord, error) {
	dec := ical.NewDecoder(r)
	var records []normalize.CanonicalRecord

	for {
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing calendar: %w", err)
		}

		for _, component := range cal.Children {
			if component.Name != ical.CompEvent {
				continue
			}
			records = append(records, eventRecord(ical.Event{Component: component}, loc))
		}
	}
	return records, nil
}

func eventRecord(event ical.Event, loc *time.Location) normalize.CanonicalRecord {
	rec := normalize.CanonicalRecord{
		EnergyRating: defaultEnergy,
		Source:       sourceICal,
	}
	rec.ID, _ = event.Props.Text(ical.PropUID)
	rec.Title, _ = event.Props.Text(ical.PropSummary)
	rec.Place, _ = event.Props.Text(ical.PropLocation)
	rec.Reflection, _ = event.Props.Text(ical.PropDescription)

	if start, err := event.DateTimeStart(loc); err == nil && !start.IsZero() {
		rec.Start = start.Format(time.RFC3339)
		if end, err := event.DateTimeEnd(loc); err == nil && end.After(start) {
			rec.End = end.Format(time.RFC3339)
		}
	}

	if p := event.Props.Get(ical.PropCategories); p != nil {
		rec.Category, _, _ = strings.Cut(p.Value, ",")
	}
	if p := event.Props.Get(propEnergy); p != nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(p.Value), 64); err == nil {
			rec.EnergyRating = v
		}
	}
	for _, p := range event.Props[ical.PropAttendee] {
		name := p.Params.Get(ical.ParamCommonName)
		if name == "" {
			name = strings.TrimPrefix(strings.ToLower(p.Value), "mailto:")
		}
		rec.People = append(rec.People, name)
	}
	return rec
}
