package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/christopherklint97/timescape/internal/activity"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginTop(1)

	// one colour per pillar, by position in the taxonomy
	pillarColors = []lipgloss.Color{"12", "10", "13", "11", "14", "9"}

	moodColors = map[activity.Mood]lipgloss.Color{
		activity.MoodHappy:       "#50c878",
		activity.MoodContent:     "#7ec8a3",
		activity.MoodPeaceful:    "#88c9bf",
		activity.MoodGrateful:    "#5fb3a1",
		activity.MoodExcited:     "#ffaa50",
		activity.MoodAnxious:     "#f0a060",
		activity.MoodTired:       "#a0a0c0",
		activity.MoodOverwhelmed: "#c080a0",
		activity.MoodSad:         "#7090c0",
		activity.MoodFrustrated:  "#e07070",
	}
)

func pillarStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(pillarColors[i%len(pillarColors)])
}

func moodStyle(m activity.Mood) lipgloss.Style {
	c, ok := moodColors[m]
	if !ok {
		c = "8"
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}
