package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReflectionBookLookup(t *testing.T) {
	book, err := NewReflectionBook([]DailyReflection{
		{Date: "2025-06-01", Mood: "Happy", Reflection: "long run", Tags: []string{"running", "running", "outdoors"}},
		{Date: "2025-06-02", Mood: MoodOverwhelmed, Reflection: "too many meetings", DayOfWeek: "monday"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, book.Len())

	r, ok := book.Lookup("2025-06-01")
	require.True(t, ok)
	require.Equal(t, MoodHappy, r.Mood)
	require.Equal(t, "Sunday", r.DayOfWeek)
	require.Equal(t, []string{"running", "outdoors"}, r.Tags)

	_, ok = book.Lookup("2025-06-03")
	require.False(t, ok)

	all := book.All()
	require.Equal(t, "2025-06-01", all[0].Date)
	require.Equal(t, "2025-06-02", all[1].Date)
}

func TestReflectionBookRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		in   []DailyReflection
		want error
	}{
		{
			name: "duplicate day",
			in:   []DailyReflection{{Date: "2025-06-01"}, {Date: "2025-06-01"}},
			want: ErrDuplicateReflection,
		},
		{
			name: "unknown mood",
			in:   []DailyReflection{{Date: "2025-06-01", Mood: "great"}},
			want: ErrUnknownMood,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReflectionBook(tt.in)
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err := NewReflectionBook([]DailyReflection{{Date: "2025-06-01", DayOfWeek: "Monday"}})
	require.Error(t, err)
}

func TestReflectionBookAcceptsEveryMood(t *testing.T) {
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	in := make([]DailyReflection, 0, len(Moods))
	for i, m := range Moods {
		in = append(in, DailyReflection{Date: day.AddDate(0, 0, i).Format("2006-01-02"), Mood: m})
	}
	book, err := NewReflectionBook(in)
	require.NoError(t, err)
	require.Equal(t, len(Moods), book.Len())

	r, ok := book.Lookup("2025-01-07")
	require.True(t, ok)
	require.Equal(t, MoodContent, r.Mood)
	require.Len(t, Moods, 10)
}

func TestNilBookLookup(t *testing.T) {
	var book *ReflectionBook
	_, ok := book.Lookup("2025-06-01")
	require.False(t, ok)
	require.Zero(t, book.Len())
}

func TestActivityValid(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	require.True(t, Activity{Start: start, End: start.Add(time.Minute)}.Valid())
	require.False(t, Activity{Start: start, End: start}.Valid())
	require.False(t, Activity{End: start}.Valid())
	require.Equal(t, 90, DurationMinutes(90*time.Minute+20*time.Second))
}
