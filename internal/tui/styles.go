package tui

import (
	"strings"

	"quickcore/internal/models"

	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor   = lipgloss.Color("#5FAFAF")
	secondaryColor = lipgloss.Color("#666666")
	successColor   = lipgloss.Color("#87AF87")
	warningColor   = lipgloss.Color("#D7AF5F")
	errorColor     = lipgloss.Color("#AF5F5F")

	// TitleStyle for headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// SubtleStyle for hints and secondary text
	SubtleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	// SelectedStyle for key hints and the spinner
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// StatusBarStyle for the bottom status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	// BoxStyle for the error banner
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(errorColor).
			Padding(1, 2)

	// SuccessStyle for success messages
	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// ErrorStyle for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// TopicStyle for topic headings in the plan view
	TopicStyle = lipgloss.NewStyle().
			Bold(true)
)

// priorityStyle colours a topic's priority badge by level.
func priorityStyle(p models.Priority) lipgloss.Style {
	switch p.Level() {
	case models.PriorityLevelHigh:
		return ErrorStyle.Bold(true)
	case models.PriorityLevelMedium:
		return lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	case models.PriorityLevelLow:
		return SuccessStyle.Bold(true)
	default:
		return SubtleStyle
	}
}

// renderStatusBar joins key hints into a single line.
func renderStatusBar(width int, items []string) string {
	return StatusBarStyle.Width(width).Render(strings.Join(items, "  •  "))
}
