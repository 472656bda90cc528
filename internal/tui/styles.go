package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5D9CEC"))
	labelStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	dividerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
)
