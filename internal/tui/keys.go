package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Prev    key.Binding
	Next    key.Binding
	Day     key.Binding
	Week    key.Binding
	Month   key.Binding
	Year    key.Binding
	Energy  key.Binding
	Strip   key.Binding
	Reflect key.Binding
	Profile key.Binding
	Jump    key.Binding
	Filter  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous")),
		Next:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Day:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "day")),
		Week:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "week")),
		Month:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "month")),
		Year:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "year")),
		Energy:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "energy sizing")),
		Strip:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "year strip")),
		Reflect: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reflections")),
		Profile: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "next profile")),
		Jump:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to date")),
		Filter:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Jump, k.Filter, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Jump},
		{k.Day, k.Week, k.Month, k.Year},
		{k.Energy, k.Strip, k.Reflect, k.Filter, k.Profile},
		{k.Help, k.Quit},
	}
}
