package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rcliao/tempnotes/internal/model"
)

var (
	colorCyan    = lipgloss.Color("#00AFAF")
	colorGray    = lipgloss.Color("#666666")
	colorRed     = lipgloss.Color("#D70000")
	colorGreen   = lipgloss.Color("#00AF5F")
	colorYellow  = lipgloss.Color("#D7AF00")
	colorInkDark = lipgloss.Color("#E4E4E4")
	colorInkLite = lipgloss.Color("#1C1C1C")
)

// palette is the set of styles for one theme.
type palette struct {
	Title  lipgloss.Style
	Text   lipgloss.Style
	Dim    lipgloss.Style
	Saved  lipgloss.Style
	Saving lipgloss.Style
	Error  lipgloss.Style
	Info   lipgloss.Style
	Border lipgloss.Style
}

func newPalette(theme string) palette {
	ink := colorInkDark
	if theme == model.ThemeLight {
		ink = colorInkLite
	}
	return palette{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(colorCyan),
		Text:   lipgloss.NewStyle().Foreground(ink),
		Dim:    lipgloss.NewStyle().Foreground(colorGray),
		Saved:  lipgloss.NewStyle().Foreground(colorGreen),
		Saving: lipgloss.NewStyle().Foreground(colorYellow),
		Error:  lipgloss.NewStyle().Foreground(colorRed).Bold(true),
		Info:   lipgloss.NewStyle().Foreground(colorCyan),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 1),
	}
}
