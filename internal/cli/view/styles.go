package view

import "github.com/charmbracelet/lipgloss"

var (
	accentColor  = lipgloss.Color("#7D56F4")
	mutedColor   = lipgloss.Color("#8A8A8A")
	successColor = lipgloss.Color("#43BF6D")
	warningColor = lipgloss.Color("#E5C07B")
	errorColor   = lipgloss.Color("#E06C75")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(accentColor).MarginBottom(1)
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	successStyle = lipgloss.NewStyle().Foreground(successColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	rowStyle     = lipgloss.NewStyle().PaddingLeft(2)
	footerStyle  = lipgloss.NewStyle().MarginTop(1)
)
