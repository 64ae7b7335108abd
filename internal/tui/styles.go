package tui

import "github.com/charmbracelet/lipgloss"

// Explorer color palette and styles.
var (
	colorPrimary = lipgloss.Color("39")  // blue
	colorAccent  = lipgloss.Color("213") // pink
	colorSuccess = lipgloss.Color("42")  // green
	colorMuted   = lipgloss.Color("241") // gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	trackStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	thumbStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	resultStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSuccess)

	ruleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(1, 2)
)
