package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/timescape/internal/pillar"
)

const journalJSON = `[
  {"date": "2025-06-01", "startTime": "06:00", "durationMinutes": 90, "activity": "Morning run",
   "category": "Exercise", "energyLevel": 7.5, "with": "Alone", "location": "Park"},
  {"date": "2025-06-01", "startTime": "09:30", "durationMinutes": 45, "activity": "Standup",
   "category": "meeting", "energyLevel": 5.2, "with": "Team", "reflection": " went fine "},
  {"date": "2025-06-01", "startTime": "25:00", "durationMinutes": 10, "activity": "Broken",
   "category": "meeting", "energyLevel": 5}
]`

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	tax, err := pillar.Builtin("v2")
	require.NoError(t, err)
	return New(tax, time.UTC, nil)
}

func TestNormalizeJournal(t *testing.T) {
	batch, err := Decode("journal", []byte(journalJSON))
	require.NoError(t, err)
	require.Equal(t, FormatJournal, batch.Format())

	res, err := newTestNormalizer(t).Normalize(batch)
	require.NoError(t, err)
	require.Len(t, res.Activities, 2)
	require.Len(t, res.Rejected, 1)
	require.Equal(t, 2, res.Rejected[0].Index)
	require.ErrorIs(t, res.Rejected[0], ErrMalformedTimestamp)

	run := res.Activities[0]
	require.Equal(t, time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC), run.Start)
	require.Equal(t, time.Date(2025, 6, 1, 7, 30, 0, 0, time.UTC), run.End)
	require.Equal(t, 90, run.Duration)
	require.Equal(t, "exercise", run.Category)
	require.Equal(t, "health", run.Pillar)
	require.Equal(t, 8.0, run.EnergyRating)
	require.Empty(t, run.People)
	require.NotNil(t, run.People)
	require.Equal(t, "Park", run.Place)
	require.Equal(t, "journal", run.Source)
	require.NotEmpty(t, run.ID)

	standup := res.Activities[1]
	require.Equal(t, []string{"Team"}, standup.People)
	require.Equal(t, 5.0, standup.EnergyRating)
	require.Equal(t, "went fine", standup.Reflection)
	require.Equal(t, "work", standup.Pillar)

	again, err := newTestNormalizer(t).Normalize(batch)
	require.NoError(t, err)
	require.Equal(t, run.ID, again.Activities[0].ID)
}

func TestNormalizeCanonicalOverridesPillar(t *testing.T) {
	batch := CanonicalBatch{Records: []CanonicalRecord{
		{ID: "a", Title: "Gym", Start: "2025-06-01T18:00:00", End: "2025-06-01T19:00:00", Category: "exercise", Pillar: "growth", EnergyRating: 8},
		{ID: "b", Title: "Dinner", Start: "2025-06-01T19:30:00+02:00", Duration: 40, Category: "Cooking"},
		{ID: "c", Title: "Nothing", Start: "2025-06-01T20:00:00"},
		{ID: "d", Title: "Backwards", Start: "2025-06-01T21:00:00", End: "2025-06-01T20:00:00", Duration: 5, Category: "tv"},
		{ID: "e", Title: "Garbage", Start: "yesterday-ish"},
	}}

	res, err := newTestNormalizer(t).Normalize(batch)
	require.NoError(t, err)
	require.Len(t, res.Activities, 3)
	require.Len(t, res.Rejected, 2)
	require.Equal(t, "c", res.Rejected[0].ID)
	require.Equal(t, "e", res.Rejected[1].ID)

	gym := res.Activities[0]
	require.Equal(t, "health", gym.Pillar)
	require.Equal(t, 60, gym.Duration)
	require.Equal(t, "canonical", gym.Source)
	require.NotNil(t, gym.People)

	dinner := res.Activities[1]
	require.Equal(t, time.Date(2025, 6, 1, 17, 30, 0, 0, time.UTC), dinner.Start)
	require.Equal(t, 40, dinner.Duration)
	require.Equal(t, "cooking", dinner.Category)

	backwards := res.Activities[2]
	require.False(t, backwards.Valid())
	require.Equal(t, 5, backwards.Duration)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	n := newTestNormalizer(t)
	batch, err := Decode("journal", []byte(journalJSON))
	require.NoError(t, err)

	first, err := n.Normalize(batch)
	require.NoError(t, err)
	second, err := n.Normalize(FromActivities(first.Activities))
	require.NoError(t, err)

	require.Len(t, second.Activities, len(first.Activities))
	for i := range first.Activities {
		a, b := first.Activities[i], second.Activities[i]
		require.True(t, a.Start.Equal(b.Start))
		require.True(t, a.End.Equal(b.End))
		require.Equal(t, a.Duration, b.Duration)
		require.Equal(t, a.Pillar, b.Pillar)
		require.Equal(t, a.ID, b.ID)
		require.Equal(t, a.People, b.People)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := ParseFormat("spreadsheet")
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Decode("spreadsheet", []byte(`[]`))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	f, err := ParseFormat(" Journal ")
	require.NoError(t, err)
	require.Equal(t, FormatJournal, f)
}

func TestDecodeEnvelope(t *testing.T) {
	batch, err := Decode("canonical", []byte(`{"activities": [{"id": "x", "start": "2025-01-01T10:00:00", "duration": 15}]}`))
	require.NoError(t, err)
	require.Equal(t, 1, batch.Len())

	batch, err = Decode("canonical", []byte(`{"profile": "empty"}`))
	require.NoError(t, err)
	require.Zero(t, batch.Len())

	_, err = Decode("journal", []byte(`{"activities": 3}`))
	require.Error(t, err)
}

func TestDuplicateIDsAreDisambiguated(t *testing.T) {
	batch := CanonicalBatch{Records: []CanonicalRecord{
		{ID: "same", Start: "2025-06-01T10:00:00", Duration: 10},
		{ID: "same", Start: "2025-06-01T11:00:00", Duration: 10},
	}}
	res, err := Normalize(batch, pillar.Default())
	require.NoError(t, err)
	require.Equal(t, "same", res.Activities[0].ID)
	require.Equal(t, "same-2", res.Activities[1].ID)

	batch = CanonicalBatch{Records: []CanonicalRecord{
		{ID: "x", Start: "2025-06-01T10:00:00", Duration: 10},
		{ID: "x", Start: "2025-06-01T11:00:00", Duration: 10},
		{ID: "x-2", Start: "2025-06-01T12:00:00", Duration: 10},
		{ID: "x", Start: "2025-06-01T13:00:00", Duration: 10},
	}}
	res, err = Normalize(batch, pillar.Default())
	require.NoError(t, err)
	var ids []string
	for _, a := range res.Activities {
		ids = append(ids, a.ID)
	}
	require.Equal(t, []string{"x", "x-3", "x-2", "x-4"}, ids)
}
