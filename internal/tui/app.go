// Package tui is the interactive period browser.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tj/go-naturaldate"

	"github.com/christopherklint97/timescape/internal/period"
	"github.com/christopherklint97/timescape/internal/stats"
	"github.com/christopherklint97/timescape/internal/view"
)

type viewState int

const (
	loadingView viewState = iota
	browseView
	promptView
	errorView
)

// Loader loads the browse model of a profile.
type Loader func(ctx context.Context, profile string) (view.Model, error)

type datasetMsg struct {
	profile string
	model   view.Model
	err     error
}

type App struct {
	state   viewState
	spinner spinner.Model
	keys    keyMap
	help    help.Model
	prompt  promptModel
	canvas  Canvas

	load        Loader
	profiles    []string
	models      map[string]view.Model
	granularity period.Granularity
	view        view.State
	render      *view.Render
	loading     string
	errMsg      string
	status      string
	now         func() time.Time
}

// NewApp creates the browser. The first profile is loaded on Init.
func NewApp(load Loader, profiles []string, g period.Granularity, canvas Canvas) *App {
	s := spinner.New()
	s.Spinner = spinner.Dot

	if len(profiles) == 0 {
		profiles = []string{""}
	}
	if canvas.Width == 0 {
		canvas.Width = 96
	}

	return &App{
		state:       loadingView,
		spinner:     s,
		keys:        newKeyMap(),
		help:        help.New(),
		canvas:      canvas,
		load:        load,
		profiles:    profiles,
		models:      make(map[string]view.Model),
		granularity: g,
		now:         time.Now,
	}
}

func (a *App) Init() tea.Cmd {
	a.loading = a.profiles[0]
	return tea.Batch(a.spinner.Tick, a.loadProfile(a.profiles[0]))
}

// State returns the current view state.
func (a *App) State() view.State {
	return a.view
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.help.Width = msg.Width
		a.canvas.Width = max(msg.Width-4, 12)
		return a, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	case datasetMsg:
		return a.handleDataset(msg)
	}

	switch a.state {
	case loadingView:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	case browseView:
		return a.updateBrowse(msg)
	case promptView:
		return a.updatePrompt(msg)
	case errorView:
		if _, ok := msg.(tea.KeyMsg); ok {
			if a.render == nil {
				return a, tea.Quit
			}
			a.errMsg = ""
			a.state = browseView
		}
	}
	return a, nil
}

func (a *App) View() string {
	switch a.state {
	case loadingView:
		return a.spinner.View() + " Loading " + a.profileLabel(a.loading) + "..."
	case errorView:
		return errorStyle.Render("Error: ") + a.errMsg + "\n\n" + helpStyle.Render("Press any key to continue")
	case promptView:
		return a.renderBrowse() + "\n\n" + a.prompt.View()
	}
	return a.renderBrowse() + "\n" + helpStyle.Render(a.help.View(a.keys))
}

func (a *App) handleDataset(msg datasetMsg) (tea.Model, tea.Cmd) {
	a.loading = ""
	if msg.err != nil {
		a.errMsg = fmt.Sprintf("loading %s: %v", a.profileLabel(msg.profile), msg.err)
		a.state = errorView
		return a, nil
	}

	a.models[msg.profile] = msg.model
	if a.render == nil {
		a.view = msg.model.Initial(msg.profile)
		if a.granularity != "" && a.granularity != period.Day {
			a.view = msg.model.Reduce(a.view, view.SetGranularity{Granularity: a.granularity})
		}
	} else {
		a.view = msg.model.Reduce(a.view, view.SelectProfile{Profile: msg.profile})
	}
	a.state = browseView
	a.refresh()
	return a, nil
}

func (a *App) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	a.status = ""
	switch {
	case key.Matches(keyMsg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(keyMsg, a.keys.Prev):
		a.dispatch(view.Navigate{Delta: -1})
	case key.Matches(keyMsg, a.keys.Next):
		a.dispatch(view.Navigate{Delta: 1})
	case key.Matches(keyMsg, a.keys.Day):
		a.dispatch(view.SetGranularity{Granularity: period.Day})
	case key.Matches(keyMsg, a.keys.Week):
		a.dispatch(view.SetGranularity{Granularity: period.Week})
	case key.Matches(keyMsg, a.keys.Month):
		a.dispatch(view.SetGranularity{Granularity: period.Month})
	case key.Matches(keyMsg, a.keys.Year):
		a.dispatch(view.SetGranularity{Granularity: period.Year})
	case key.Matches(keyMsg, a.keys.Energy):
		a.dispatch(view.ToggleEnergy{})
	case key.Matches(keyMsg, a.keys.Strip):
		a.dispatch(view.ToggleStrip{})
	case key.Matches(keyMsg, a.keys.Reflect):
		a.dispatch(view.ToggleReflections{})
	case key.Matches(keyMsg, a.keys.Profile):
		return a, a.nextProfile()
	case key.Matches(keyMsg, a.keys.Jump):
		a.prompt = newPromptModel(jumpPrompt, "")
		a.state = promptView
		return a, a.prompt.input.Focus()
	case key.Matches(keyMsg, a.keys.Filter):
		a.prompt = newPromptModel(filterPrompt, formatFacets(a.view.Facets))
		a.state = promptView
		return a, a.prompt.input.Focus()
	case key.Matches(keyMsg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	}
	return a, nil
}

func (a *App) updatePrompt(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			a.state = browseView
			return a, nil
		case "enter":
			a.state = browseView
			a.submitPrompt()
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.prompt, cmd = a.prompt.Update(msg)
	return a, cmd
}

func (a *App) submitPrompt() {
	value := strings.TrimSpace(a.prompt.Value())
	switch a.prompt.kind {
	case jumpPrompt:
		at, err := a.parseJump(value)
		if err != nil {
			a.status = err.Error()
			return
		}
		a.dispatch(view.JumpTo{At: at})
	case filterPrompt:
		a.dispatch(view.SetFacets{Facets: parseFacets(value)})
	}
}

// parseJump accepts a period key of the current granularity or a natural
// language date relative to now.
func (a *App) parseJump(value string) (time.Time, error) {
	loc := a.model().Location()
	if t, err := period.ParseKey(a.view.Granularity, value, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(period.DayLayout, value, loc); err == nil {
		return t, nil
	}
	t, err := naturaldate.Parse(value, a.now().In(loc), naturaldate.WithDirection(naturaldate.Past))
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot read date %q", value)
	}
	return t, nil
}

func (a *App) dispatch(action view.Action) {
	a.view = a.model().Reduce(a.view, action)
	a.refresh()
}

func (a *App) refresh() {
	r, err := a.model().Query(a.view)
	if err != nil {
		a.status = err.Error()
		return
	}
	a.render = r
}

func (a *App) model() view.Model {
	return a.models[a.view.Profile]
}

func (a *App) nextProfile() tea.Cmd {
	if len(a.profiles) < 2 {
		return nil
	}
	next := a.profiles[0]
	for i, p := range a.profiles {
		if p == a.view.Profile {
			next = a.profiles[(i+1)%len(a.profiles)]
			break
		}
	}
	if m, ok := a.models[next]; ok {
		a.view = m.Reduce(a.view, view.SelectProfile{Profile: next})
		a.refresh()
		return nil
	}
	a.state = loadingView
	a.loading = next
	return tea.Batch(a.spinner.Tick, a.loadProfile(next))
}

func (a *App) loadProfile(profile string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		m, err := a.load(ctx, profile)
		return datasetMsg{profile: profile, model: m, err: err}
	}
}

func (a *App) profileLabel(p string) string {
	if p == "" {
		return "dataset"
	}
	return p
}

func (a *App) renderBrowse() string {
	r := a.render
	if r == nil {
		return ""
	}
	s := r.State

	var b strings.Builder
	header := fmt.Sprintf("timescape · %s · %s %s", a.profileLabel(s.Profile), s.Granularity, s.Period)
	if s.Strip && s.Granularity == period.Year {
		header += " (strip)"
	}
	if r.Calendar != nil {
		header += " (reflections)"
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")

	nav := "◀ " + orNone(r.Prev) + "   " + orNone(r.Next) + " ▶"
	b.WriteString(subtitleStyle.Render(nav + "   filter: " + formatFacets(s.Facets)))
	b.WriteString("\n")
	if r.Reflection != nil {
		b.WriteString(moodStyle(r.Reflection.Mood).Render(string(r.Reflection.Mood)) + " " + r.Reflection.Reflection)
		b.WriteString("\n")
	}

	if r.Calendar != nil {
		b.WriteString(ReflectionCalendar(r.Calendar))
	} else if r.Empty() {
		b.WriteString("\n" + dimStyle.Render("No activities in this period."))
	} else {
		b.WriteString(boxStyle.Render(a.canvas.Draw(r.Frame, s.EnergySizing)))
		b.WriteString("\n" + a.canvas.Legend() + "\n")
		b.WriteString(summary(r))
	}
	if len(r.Excluded) > 0 {
		b.WriteString("\n" + warningStyle.Render(fmt.Sprintf("%d activities not drawn (invalid times)", len(r.Excluded))))
	}
	if a.status != "" {
		b.WriteString("\n" + warningStyle.Render(a.status))
	}
	return b.String()
}

func summary(r *view.Render) string {
	total := 0
	var energySum float64
	for _, act := range r.Activities {
		total += act.Duration
		energySum += act.EnergyRating
	}
	mean := energySum / float64(len(r.Activities))

	lines := []string{fmt.Sprintf("%d activities · %dh%02dm · mean energy %.1f (%s)",
		len(r.Activities), total/60, total%60, mean, strings.Join(stats.Emotions(mean), ", "))}
	for i, c := range r.Categories {
		if i == 5 {
			break
		}
		lines = append(lines, fmt.Sprintf("  %-16s %3d× energy %.1f", c.Category, c.Summary.Count, c.Summary.MeanOr(0)))
	}
	return strings.Join(lines, "\n")
}

// ReflectionCalendar renders one line per day of the month.
func ReflectionCalendar(days []view.ReflectionDay) string {
	lines := make([]string, 0, len(days))
	for _, d := range days {
		date := d.Weekday[:3] + " " + d.Day[len(d.Day)-2:]
		energy := ""
		if d.Energy.Count > 0 {
			energy = fmt.Sprintf("  avg energy %.1f/10", d.Energy.MeanOr(0))
		}
		if d.Reflection == nil {
			lines = append(lines, dimStyle.Render(date+"  No reflection")+energy)
			continue
		}
		line := fmt.Sprintf("%s  %s  %q%s", date, moodStyle(d.Reflection.Mood).Render(string(d.Reflection.Mood)), d.Reflection.Reflection, energy)
		if len(d.Reflection.Tags) > 0 {
			line += "  " + subtitleStyle.Render("#"+strings.Join(d.Reflection.Tags, " #"))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func orNone(key string) string {
	if key == "" {
		return "none"
	}
	return key
}

func formatFacets(f period.Facets) string {
	pillarName, category := f.Pillar, f.Category
	if pillarName == "" {
		pillarName = period.All
	}
	if category == "" || category == period.All {
		return pillarName
	}
	return pillarName + "/" + category
}

// parseFacets reads "pillar", "pillar/category" or "/category".
func parseFacets(s string) period.Facets {
	f := period.Facets{Pillar: period.All, Category: period.All}
	pillarName, category, _ := strings.Cut(strings.TrimSpace(s), "/")
	if p := strings.TrimSpace(pillarName); p != "" {
		f.Pillar = strings.ToLower(p)
	}
	if c := strings.TrimSpace(category); c != "" {
		f.Category = strings.ToLower(c)
	}
	return f
}
