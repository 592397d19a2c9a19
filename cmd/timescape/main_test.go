package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/timescape/internal/period"
	"github.com/christopherklint97/timescape/internal/stats"
	"github.com/christopherklint97/timescape/internal/view"
)

const journal = `[
  {"id": "a", "date": "2025-06-02", "startTime": "07:00", "durationMinutes": 60, "activity": "Run", "category": "exercise", "energyLevel": 8, "with": "Alone"},
  {"id": "b", "date": "2025-06-02", "startTime": "09:00", "durationMinutes": 30, "activity": "Standup", "category": "meeting", "energyLevel": 5, "with": "Team"},
  {"id": "c", "date": "2025-06-11", "startTime": "18:00", "durationMinutes": 90, "activity": "Dinner", "category": "cooking", "energyLevel": 6}
]`

// testCommand mirrors the flags the real commands share.
func testCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "journal.json")
	require.NoError(t, os.WriteFile(data, []byte(journal), 0644))
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
[data]
path = "`+data+`"
format = "journal"
timezone = "UTC"

[log]
level = "error"
`), 0644))

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", cfgPath, "")
	cmd.Flags().String("profile", "default", "")
	cmd.Flags().String("pillar", period.All, "")
	cmd.Flags().String("category", period.All, "")
	cmd.Flags().String("granularity", "", "")
	cmd.Flags().String("period", "", "")
	cmd.Flags().String("at", "", "")
	require.NoError(t, cmd.Flags().Parse(args))
	cmd.SetContext(context.Background())
	return cmd
}

func TestLoadAndSelectDefaults(t *testing.T) {
	cmd := testCommand(t)
	sess, m, err := load(cmd)
	require.NoError(t, err)
	require.Equal(t, "v2", sess.taxonomy.Version)
	require.Len(t, m.Activities, 3)
	require.Equal(t, time.UTC, m.Location())

	s, err := selectState(cmd, m, period.Day)
	require.NoError(t, err)
	require.Equal(t, "2025-06-11", s.Period)
}

func TestSelectStateFlags(t *testing.T) {
	cmd := testCommand(t, "--granularity", "week", "--period", "2025-W23", "--pillar", "Work")
	_, m, err := load(cmd)
	require.NoError(t, err)

	s, err := selectState(cmd, m, period.Day)
	require.NoError(t, err)
	require.Equal(t, period.Week, s.Granularity)
	require.Equal(t, "2025-W23", s.Period)
	require.Equal(t, "work", s.Facets.Pillar)

	r, err := m.Query(s)
	require.NoError(t, err)
	require.Len(t, r.Activities, 1)
	require.Equal(t, "b", r.Activities[0].ID)
}

func TestSelectStateRejectsBadInput(t *testing.T) {
	cmd := testCommand(t, "--granularity", "fortnight")
	_, m, err := load(cmd)
	require.NoError(t, err)
	_, err = selectState(cmd, m, period.Day)
	require.ErrorIs(t, err, period.ErrUnknownGranularity)

	cmd = testCommand(t, "--granularity", "month", "--period", "2025-13")
	_, m, err = load(cmd)
	require.NoError(t, err)
	_, err = selectState(cmd, m, period.Day)
	require.ErrorIs(t, err, period.ErrInvalidKey)
}

func TestStatsScope(t *testing.T) {
	cmd := testCommand(t, "--at", "2025-06-02")
	_, m, err := load(cmd)
	require.NoError(t, err)

	scope, err := resolveScope(cmd, m)
	require.NoError(t, err)
	require.Equal(t, "month 2025-06", scope.label)
	require.Len(t, scope.activities, 3)

	cmd = testCommand(t, "--category", "cooking")
	_, m, err = load(cmd)
	require.NoError(t, err)
	scope, err = resolveScope(cmd, m)
	require.NoError(t, err)
	require.Equal(t, "all periods", scope.label)
	require.Len(t, scope.activities, 1)
}

func TestReflectionMonthState(t *testing.T) {
	cmd := testCommand(t, "--at", "2025-06-02")
	_, m, err := load(cmd)
	require.NoError(t, err)

	s, err := selectState(cmd, m, period.Month)
	require.NoError(t, err)
	s = m.Reduce(s, view.ToggleReflections{})
	require.Equal(t, "2025-06", s.Period)

	r, err := m.Query(s)
	require.NoError(t, err)
	require.Len(t, r.Calendar, 30)
	require.Zero(t, reflected(r.Calendar))
	require.Equal(t, 2, r.Calendar[1].Energy.Count)
	require.InDelta(t, 6.5, r.Calendar[1].Energy.MeanOr(0), 1e-9)
	require.Zero(t, r.Calendar[2].Energy.Count)
}

func TestParseWhen(t *testing.T) {
	now := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)

	got, err := parseWhen("2025-06-02", time.UTC, now)
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), got)

	got, err = parseWhen("yesterday", time.UTC, now)
	require.NoError(t, err)
	require.Equal(t, "2025-06-03", period.DayKey(got))
}

func TestHourRows(t *testing.T) {
	cmd := testCommand(t)
	_, m, err := load(cmd)
	require.NoError(t, err)

	scope, err := resolveScope(cmd, m)
	require.NoError(t, err)
	rows := hourRows(stats.EnergyByHourWeekday(scope.activities, time.UTC))
	require.Len(t, rows, 7)
	require.Equal(t, time.Monday, rows[1].Weekday)
	require.NotNil(t, rows[1].Hours[7])
	require.Nil(t, rows[1].Hours[8])
	require.Equal(t, 1, rows[1].Hours[7].Count)
}
