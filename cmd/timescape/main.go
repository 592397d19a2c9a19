package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tj/go-naturaldate"

	"github.com/christopherklint97/timescape/internal/config"
	"github.com/christopherklint97/timescape/internal/dataset"
	"github.com/christopherklint97/timescape/internal/layout"
	"github.com/christopherklint97/timescape/internal/normalize"
	"github.com/christopherklint97/timescape/internal/period"
	"github.com/christopherklint97/timescape/internal/pillar"
	"github.com/christopherklint97/timescape/internal/view"
)

var rootCmd = &cobra.Command{
	Use:   "timescape",
	Short: "Browse personal time-tracking data as period timelines",
	Long: "timescape loads activity exports (JSON, iCalendar or a clockr database), " +
		"buckets them into days, weeks, months and years, and shows proportional timelines and energy statistics.",
	SilenceUsage: true,
}

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "List the periods that contain activities",
	RunE:  runPeriods,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the timeline of one period",
	RunE:  runShow,
}

var stripCmd = &cobra.Command{
	Use:   "strip",
	Short: "Show a multi-day strip of every day in a range",
	RunE:  runStrip,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show energy and reflection statistics",
	RunE:  runStats,
}

var reflectionsCmd = &cobra.Command{
	Use:   "reflections",
	Short: "Show every day of a month with its reflection and mean energy",
	RunE:  runReflections,
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse periods interactively",
	RunE:  runBrowse,
}

var schemaCmd = &cobra.Command{
	Use:       "schema [canonical|journal|reflection|state]",
	Short:     "Print the JSON Schema of an input format",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"canonical", "journal", "reflection", "state"},
	RunE:      runSchema,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Open config file in your editor",
	RunE:  runConfig,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/timescape/config.toml)")
	rootCmd.PersistentFlags().StringP("profile", "p", config.DefaultProfile, "Dataset profile")
	rootCmd.PersistentFlags().String("pillar", period.All, "Only activities of this pillar")
	rootCmd.PersistentFlags().String("category", period.All, "Only activities of this category")

	for _, c := range []*cobra.Command{periodsCmd, showCmd, statsCmd, browseCmd} {
		c.Flags().StringP("granularity", "g", "", "day, week, month or year")
	}
	for _, c := range []*cobra.Command{showCmd, statsCmd, reflectionsCmd} {
		c.Flags().String("period", "", "Period key, e.g. 2025-06-03, 2025-W23, 2025-06, 2025")
		c.Flags().String("at", "", "Date inside the period, e.g. \"last friday\" or 2025-06-03")
		c.Flags().Bool("json", false, "Print JSON")
	}
	for _, c := range []*cobra.Command{showCmd, stripCmd} {
		c.Flags().Int("width", 96, "Canvas width in characters")
		c.Flags().Bool("plain", false, "Disable colours")
	}
	stripCmd.Flags().String("from", "", "First day (default: first day of the latest year with data)")
	stripCmd.Flags().String("to", "", "Last day (default: last day of that year)")
	statsCmd.Flags().String("by", "distribution", "distribution, hour, month, category, mood, tags or people")

	rootCmd.AddCommand(periodsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(stripCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reflectionsCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// session is the configuration shared by every command.
type session struct {
	cfg      *config.Config
	taxonomy *pillar.Taxonomy
	logger   *slog.Logger
}

func newSession(cmd *cobra.Command) (*session, error) {
	var (
		cfg *config.Config
		err error
	)
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	taxonomy, err := cfg.LoadTaxonomy()
	if err != nil {
		return nil, fmt.Errorf("loading taxonomy: %w", err)
	}
	return &session{cfg: cfg, taxonomy: taxonomy, logger: logger}, nil
}

func (s *session) loadModel(ctx context.Context, profile string) (view.Model, error) {
	data, err := s.cfg.Profile(profile)
	if err != nil {
		return view.Model{}, err
	}
	src, err := data.Source()
	if err != nil {
		return view.Model{}, err
	}
	loc, err := data.Location()
	if err != nil {
		return view.Model{}, err
	}

	logger := s.logger.With("profile", profile)
	loader := dataset.NewLoader(normalize.New(s.taxonomy, loc, logger), loc, logger)
	ds, err := loader.Load(ctx, src)
	if err != nil {
		return view.Model{}, fmt.Errorf("loading dataset: %w", err)
	}
	if len(ds.Rejected) > 0 {
		logger.Warn("some records were rejected", "count", len(ds.Rejected))
	}

	return view.Model{
		Activities:  ds.Activities,
		Reflections: ds.Reflections,
		Engine:      layout.New(s.cfg.EngineConfig(), loc),
	}, nil
}

// load builds the session and the model of the --profile profile.
func load(cmd *cobra.Command) (*session, view.Model, error) {
	s, err := newSession(cmd)
	if err != nil {
		return nil, view.Model{}, err
	}
	profile, _ := cmd.Flags().GetString("profile")
	m, err := s.loadModel(cmd.Context(), profile)
	if err != nil {
		return nil, view.Model{}, err
	}
	return s, m, nil
}

// selectState turns the shared flags into a view state.
func selectState(cmd *cobra.Command, m view.Model, fallback period.Granularity) (view.State, error) {
	profile, _ := cmd.Flags().GetString("profile")
	s := m.Initial(profile)

	g := fallback
	if v, _ := cmd.Flags().GetString("granularity"); v != "" {
		parsed, err := period.ParseGranularity(v)
		if err != nil {
			return view.State{}, err
		}
		g = parsed
	}
	s = m.Reduce(s, view.SetFacets{Facets: facets(cmd)})
	s = m.Reduce(s, view.SetGranularity{Granularity: g})

	key, _ := cmd.Flags().GetString("period")
	at, _ := cmd.Flags().GetString("at")
	switch {
	case key != "":
		start, err := period.ParseKey(g, key, m.Location())
		if err != nil {
			return view.State{}, err
		}
		s = m.Reduce(s, view.JumpTo{At: start})
	case at != "":
		t, err := parseWhen(at, m.Location(), time.Now())
		if err != nil {
			return view.State{}, err
		}
		s = m.Reduce(s, view.JumpTo{At: t})
	}
	return s, nil
}

func facets(cmd *cobra.Command) period.Facets {
	p, _ := cmd.Flags().GetString("pillar")
	c, _ := cmd.Flags().GetString("category")
	return period.Facets{Pillar: strings.ToLower(p), Category: strings.ToLower(c)}
}

// parseWhen reads a YYYY-MM-DD date or a natural language date in the past.
func parseWhen(s string, loc *time.Location, now time.Time) (time.Time, error) {
	if t, err := time.ParseInLocation(period.DayLayout, strings.TrimSpace(s), loc); err == nil {
		return t, nil
	}
	t, err := naturaldate.Parse(s, now.In(loc), naturaldate.WithDirection(naturaldate.Past))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}
