package tui

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginLeft(2)

	statusSuccessStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("10")).
				MarginLeft(2)

	statusFailureStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("9")).
				MarginLeft(2)

	statusNeutralStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("8")).
				MarginLeft(2)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(1, 2).
			MarginLeft(2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginLeft(2)
)
