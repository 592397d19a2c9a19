package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/christopherklint97/timescape/internal/dataset"
	"github.com/christopherklint97/timescape/internal/layout"
	"github.com/christopherklint97/timescape/internal/pillar"
)

// DefaultProfile is the name given to the [data] section.
const DefaultProfile = "default"

type Config struct {
	Data     DataConfig            `toml:"data"`
	Profiles map[string]DataConfig `toml:"profiles"`
	Taxonomy TaxonomyConfig        `toml:"taxonomy"`
	Layout   LayoutConfig          `toml:"layout"`
	Log      LogConfig             `toml:"log"`
}

type DataConfig struct {
	Path        string `toml:"path"`
	Format      string `toml:"format"` // canonical | journal | ical | clockr; empty detects from the extension
	Reflections string `toml:"reflections"`
	Timezone    string `toml:"timezone"`
}

type TaxonomyConfig struct {
	Version string `toml:"version"`
	File    string `toml:"file"`
}

type LayoutConfig struct {
	MinExtent     float64                  `toml:"min_extent"`
	YearMinExtent float64                  `toml:"year_min_extent"`
	SlotsPerRow   int                      `toml:"slots_per_row"`
	EnergySizing  bool                     `toml:"energy_sizing"`
	FixedSize     float64                  `toml:"fixed_size"`
	Sizing        map[string]layout.Sizing `toml:"sizing"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func DefaultConfig() Config {
	lc := layout.DefaultConfig()
	sizing := make(map[string]layout.Sizing, len(lc.Sizing))
	for kind, s := range lc.Sizing {
		sizing[string(kind)] = s
	}
	return Config{
		Taxonomy: TaxonomyConfig{Version: pillar.DefaultVersion},
		Layout: LayoutConfig{
			MinExtent:     lc.MinExtent,
			YearMinExtent: lc.YearMinExtent,
			SlotsPerRow:   lc.SlotsPerRow,
			EnergySizing:  lc.EnergySizing,
			FixedSize:     lc.FixedSize,
			Sizing:        sizing,
		},
		Log: LogConfig{Level: "info"},
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "timescape"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file from its default location. A missing file is
// not an error.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TIMESCAPE_DATA"); v != "" {
		cfg.Data.Path = v
	}
	if v := os.Getenv("TIMESCAPE_FORMAT"); v != "" {
		cfg.Data.Format = v
	}
	if v := os.Getenv("TIMESCAPE_REFLECTIONS"); v != "" {
		cfg.Data.Reflections = v
	}
	if v := os.Getenv("TIMESCAPE_TZ"); v != "" {
		cfg.Data.Timezone = v
	}
	if v := os.Getenv("TIMESCAPE_TAXONOMY"); v != "" {
		if strings.ContainsAny(v, `/\.`) {
			cfg.Taxonomy.File = v
		} else {
			cfg.Taxonomy.Version = v
		}
	}
	if v := os.Getenv("TIMESCAPE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// ProfileNames returns the default profile followed by the named ones, sorted.
func (c *Config) ProfileNames() []string {
	names := []string{DefaultProfile}
	for name := range c.Profiles {
		if name != DefaultProfile {
			names = append(names, name)
		}
	}
	slices.Sort(names[1:])
	return names
}

// Profile returns the data settings of a profile. A named profile without a
// timezone uses the one from [data].
func (c *Config) Profile(name string) (DataConfig, error) {
	if name == "" || name == DefaultProfile {
		return c.Data, nil
	}
	p, ok := c.Profiles[name]
	if !ok {
		return DataConfig{}, fmt.Errorf("unknown profile %q", name)
	}
	if p.Timezone == "" {
		p.Timezone = c.Data.Timezone
	}
	return p, nil
}

// Source converts the profile into a dataset source.
func (d DataConfig) Source() (dataset.Source, error) {
	if d.Path == "" {
		return dataset.Source{}, fmt.Errorf("no data path configured (set [data] path or TIMESCAPE_DATA)")
	}
	kind, err := dataset.ParseKind(d.Format)
	if err != nil {
		return dataset.Source{}, err
	}
	return dataset.Source{Path: expandHome(d.Path), Kind: kind, Reflections: expandHome(d.Reflections)}, nil
}

// Location resolves the profile's timezone; empty means the local zone.
func (d DataConfig) Location() (*time.Location, error) {
	if d.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone: %w", err)
	}
	return loc, nil
}

// LoadTaxonomy returns the configured taxonomy: a file when set, otherwise a
// built-in version.
func (c *Config) LoadTaxonomy() (*pillar.Taxonomy, error) {
	if c.Taxonomy.File != "" {
		return pillar.LoadFile(expandHome(c.Taxonomy.File))
	}
	return pillar.Builtin(c.Taxonomy.Version)
}

// EngineConfig converts the [layout] section for the layout engine.
func (c *Config) EngineConfig() layout.Config {
	lc := layout.Config{
		MinExtent:     c.Layout.MinExtent,
		YearMinExtent: c.Layout.YearMinExtent,
		SlotsPerRow:   c.Layout.SlotsPerRow,
		EnergySizing:  c.Layout.EnergySizing,
		FixedSize:     c.Layout.FixedSize,
		Sizing:        make(map[layout.FrameKind]layout.Sizing),
	}
	for kind, s := range layout.DefaultConfig().Sizing {
		lc.Sizing[kind] = s
	}
	for name, s := range c.Layout.Sizing {
		lc.Sizing[layout.FrameKind(strings.ToLower(name))] = s
	}
	return lc
}

func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("parsing log level: %w", err)
	}
	return level, nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// Save writes cfg to the default location, creating the directory.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	out, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}
