package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/christopherklint97/timescape/internal/activity"
	"github.com/christopherklint97/timescape/internal/config"
	"github.com/christopherklint97/timescape/internal/normalize"
	"github.com/christopherklint97/timescape/internal/period"
	"github.com/christopherklint97/timescape/internal/tui"
	"github.com/christopherklint97/timescape/internal/view"
)

func runBrowse(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}

	profile, _ := cmd.Flags().GetString("profile")
	names := sess.cfg.ProfileNames()
	if !slices.Contains(names, profile) {
		return fmt.Errorf("unknown profile %q", profile)
	}
	// the selected profile loads first, the rest follow in p-key order
	i := slices.Index(names, profile)
	names = slices.Concat(names[i:], names[:i])

	g := period.Day
	if v, _ := cmd.Flags().GetString("granularity"); v != "" {
		if g, err = period.ParseGranularity(v); err != nil {
			return err
		}
	}

	load := func(ctx context.Context, name string) (view.Model, error) {
		return sess.loadModel(ctx, name)
	}
	canvas := tui.Canvas{
		Pillars: sess.taxonomy.Pillars,
		Sizing:  sess.cfg.EngineConfig().Sizing,
	}
	app := tui.NewApp(load, names, g, canvas)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}

func runSchema(cmd *cobra.Command, args []string) error {
	name := "canonical"
	if len(args) > 0 {
		name = args[0]
	}

	r := &jsonschema.Reflector{ExpandedStruct: true}
	var schema *jsonschema.Schema
	switch name {
	case "canonical":
		schema = r.Reflect(&normalize.CanonicalRecord{})
	case "journal":
		schema = r.Reflect(&normalize.JournalRecord{})
	case "reflection":
		schema = r.Reflect(&activity.DailyReflection{})
	case "state":
		schema = r.Reflect(&view.State{})
	default:
		return fmt.Errorf("unknown schema %q", name)
	}
	schema.Title = "timescape " + name
	return writeJSON(schema)
}

func runConfig(cmd *cobra.Command, args []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := config.DefaultConfig()
		if err := config.Save(&cfg); err != nil {
			return fmt.Errorf("writing default config: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	fmt.Printf("Opening %s with %s...\n", configPath, editor)

	proc := os.ProcAttr{
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	}
	path, err := exec.LookPath(editor)
	if err != nil {
		fmt.Printf("Could not find editor. Config file is at: %s\n", configPath)
		return nil
	}
	process, err := os.StartProcess(path, []string{editor, configPath}, &proc)
	if err != nil {
		fmt.Printf("Could not open editor. Config file is at: %s\n", configPath)
		return nil
	}
	_, err = process.Wait()
	return err
}
