// Package styles holds the lipgloss color palette and text styles shared by
// console output.
package styles

import "github.com/charmbracelet/lipgloss"

// Adaptive colors pick a variant for light and dark terminal backgrounds.
var (
	ColorError   = lipgloss.AdaptiveColor{Light: "#D73737", Dark: "#FF5555"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFB86C"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#1E8449", Dark: "#50FA7B"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#1F6FB2", Dark: "#8BE9FD"}
	ColorPurple  = lipgloss.AdaptiveColor{Light: "#7D3C98", Dark: "#BD93F9"}
	ColorYellow  = lipgloss.AdaptiveColor{Light: "#9A7D0A", Dark: "#F1FA8C"}
	ColorComment = lipgloss.AdaptiveColor{Light: "#6C7A89", Dark: "#6272A4"}
	ColorBorder  = lipgloss.AdaptiveColor{Light: "#BDC3C7", Dark: "#44475A"}
)

var (
	Error    = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	Warning  = lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
	Success  = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
	Info     = lipgloss.NewStyle().Bold(true).Foreground(ColorInfo)
	Command  = lipgloss.NewStyle().Bold(true).Foreground(ColorPurple)
	Progress = lipgloss.NewStyle().Foreground(ColorYellow)
	Verbose  = lipgloss.NewStyle().Italic(true).Foreground(ColorComment)
	Location = lipgloss.NewStyle().Foreground(ColorYellow)

	// TableHeader is used for the header row of rendered tables.
	TableHeader = lipgloss.NewStyle().Bold(true).Foreground(ColorInfo).Padding(0, 1)
	// TableCell is used for every body cell.
	TableCell = lipgloss.NewStyle().Padding(0, 1)
	// TableTotal highlights the optional total row.
	TableTotal = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	// TableBorder colors table borders.
	TableBorder = lipgloss.NewStyle().Foreground(ColorBorder)
	// TableTitle renders a table title line.
	TableTitle = lipgloss.NewStyle().Bold(true).Foreground(ColorPurple)
)
