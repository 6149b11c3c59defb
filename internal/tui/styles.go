package tui

import "github.com/charmbracelet/lipgloss"

const keyWidth = 5

var (
	displayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Align(lipgloss.Right)

	expressionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	// expressionDimStyle is used while a result is shown below the expression.
	expressionDimStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("28")).
			Bold(true)

	keyStyle = lipgloss.NewStyle().
			Width(keyWidth).
			Align(lipgloss.Center)

	operatorKeyStyle = keyStyle.
				Foreground(lipgloss.Color("205"))

	pressedKeyStyle = keyStyle.
			Reverse(true).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	tapeErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)
