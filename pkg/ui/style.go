package ui

import "github.com/charmbracelet/lipgloss"

// ColorPalette defines a consistent color scheme
type ColorPalette struct {
	Primary lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color
}

// DarkPalette is the default palette
var DarkPalette = ColorPalette{
	Primary: lipgloss.Color("#7C3AED"), // Purple
	Success: lipgloss.Color("#10B981"), // Emerald
	Warning: lipgloss.Color("#F59E0B"), // Amber
	Error:   lipgloss.Color("#EF4444"), // Red
	Muted:   lipgloss.Color("#94A3B8"), // Slate
}

var palette = DarkPalette

// Styles shared by the command-line output.
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true)

	NoteStyle = lipgloss.NewStyle().
			Foreground(palette.Warning).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Foreground(palette.Success).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(palette.Error).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(palette.Muted)
)
