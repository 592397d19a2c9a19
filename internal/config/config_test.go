package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/timescape/internal/dataset"
	"github.com/christopherklint97/timescape/internal/layout"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, "v2", cfg.Taxonomy.Version)
	require.Equal(t, layout.DefaultConfig(), cfg.EngineConfig())

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, level)

	_, err = cfg.Data.Source()
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[data]
path = "/data/journal.json"
format = "journal"
reflections = "/data/reflections.yaml"
timezone = "Europe/Stockholm"

[profiles.work]
path = "/data/clockr.db"

[taxonomy]
version = "v1"

[layout]
slots_per_row = 7
energy_sizing = false

[layout.sizing.day]
base_offset = 4
max_range = 100

[log]
level = "debug"
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	src, err := cfg.Data.Source()
	require.NoError(t, err)
	require.Equal(t, dataset.Source{Path: "/data/journal.json", Kind: dataset.KindJournal, Reflections: "/data/reflections.yaml"}, src)

	loc, err := cfg.Data.Location()
	require.NoError(t, err)
	require.Equal(t, "Europe/Stockholm", loc.String())

	require.Equal(t, []string{DefaultProfile, "work"}, cfg.ProfileNames())
	work, err := cfg.Profile("work")
	require.NoError(t, err)
	require.Equal(t, "Europe/Stockholm", work.Timezone)
	src, err = work.Source()
	require.NoError(t, err)
	require.Empty(t, src.Kind)

	_, err = cfg.Profile("play")
	require.Error(t, err)

	tax, err := cfg.LoadTaxonomy()
	require.NoError(t, err)
	require.Equal(t, "v1", tax.Version)

	lc := cfg.EngineConfig()
	require.Equal(t, 7, lc.SlotsPerRow)
	require.False(t, lc.EnergySizing)
	require.Equal(t, layout.Sizing{BaseOffset: 4, MaxRange: 100}, lc.Sizing[layout.FrameDay])
	require.Equal(t, layout.DefaultConfig().Sizing[layout.FrameStrip], lc.Sizing[layout.FrameStrip])
	require.Equal(t, layout.DefaultConfig().YearMinExtent, lc.YearMinExtent)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, level)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TIMESCAPE_DATA", "/env/export.ics")
	t.Setenv("TIMESCAPE_FORMAT", "ical")
	t.Setenv("TIMESCAPE_TAXONOMY", "v1")
	t.Setenv("TIMESCAPE_LOG_LEVEL", "warn")
	t.Setenv("TIMESCAPE_TZ", "UTC")

	cfg, err := LoadFile(writeConfig(t, "[data]\npath = \"/file/path.json\"\n"))
	require.NoError(t, err)
	require.Equal(t, "/env/export.ics", cfg.Data.Path)
	require.Equal(t, "ical", cfg.Data.Format)
	require.Equal(t, "v1", cfg.Taxonomy.Version)
	require.Equal(t, "warn", cfg.Log.Level)
	require.Equal(t, "UTC", cfg.Data.Timezone)

	t.Setenv("TIMESCAPE_TAXONOMY", "/etc/timescape/pillars.yaml")
	cfg, err = LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, "/etc/timescape/pillars.yaml", cfg.Taxonomy.File)
}

func TestInvalidValues(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "[data\n"))
	require.Error(t, err)

	cfg := DefaultConfig()
	cfg.Log.Level = "loud"
	_, err = cfg.LogLevel()
	require.Error(t, err)

	cfg.Data.Timezone = "Mars/Olympus"
	_, err = cfg.Data.Location()
	require.Error(t, err)

	cfg.Data.Path = "x.json"
	cfg.Data.Format = "xml"
	_, err = cfg.Data.Source()
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := DefaultConfig()
	cfg.Data.Path = "/data/export.json"
	require.NoError(t, Save(&cfg))

	path, err := ConfigPath()
	require.NoError(t, err)
	loaded, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "/data/export.json", loaded.Data.Path)
	require.Equal(t, cfg.EngineConfig(), loaded.EngineConfig())
}
