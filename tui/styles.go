// ABOUTME: Defines lipgloss style constants for the dashboard panels and status line.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Panel borders
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	// Title styling
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	// Picker rows
	CursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	DimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	SelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	// Data table
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	BestStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WorstStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	// Status line
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	// Suggestion shortcuts
	SuggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
)
