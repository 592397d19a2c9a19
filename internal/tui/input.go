package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type promptKind int

const (
	jumpPrompt promptKind = iota
	filterPrompt
)

// promptModel is a one-line input shown over the browser.
type promptModel struct {
	kind  promptKind
	input textinput.Model
	label string
}

func newPromptModel(kind promptKind, prefill string) promptModel {
	ti := textinput.New()
	ti.CharLimit = 80
	ti.Width = 40
	ti.Focus()

	label := "Go to"
	switch kind {
	case jumpPrompt:
		ti.Placeholder = "2025-06-03, last monday, 3 weeks ago..."
	case filterPrompt:
		label = "Filter"
		ti.Placeholder = "pillar[/category], e.g. work/meeting or all"
	}
	if prefill != "" {
		ti.SetValue(prefill)
	}

	return promptModel{kind: kind, input: ti, label: label}
}

func (m promptModel) Update(msg tea.Msg) (promptModel, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	return highlightStyle.Render(m.label+": ") + m.input.View() + "\n" +
		helpStyle.Render("Enter: apply • Esc: cancel")
}

func (m promptModel) Value() string {
	return m.input.Value()
}
