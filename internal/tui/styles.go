package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorPrimary   = lipgloss.Color("39")  // Blue
	ColorSecondary = lipgloss.Color("245") // Gray
	ColorHighlight = lipgloss.Color("220") // Yellow
	ColorError     = lipgloss.Color("196") // Red
	ColorMuted     = lipgloss.Color("240") // Dark gray
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	NameStyle = lipgloss.NewStyle().
			Bold(true)

	TypeLabelStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Border(lipgloss.NormalBorder(), false, true).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	DescriptionStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				MarginLeft(4)

	TagStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			MarginLeft(4)

	// HighlightStyle marks search matches in list rows.
	HighlightStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true).
			Underline(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	DetailBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)
)

// Symbols for visual feedback.
const (
	SymbolCursor = "›"
	SymbolBullet = "•"
	SymbolCross  = "✗"
)

// Highlight renders a search match with HighlightStyle.
func Highlight(match string) string {
	return HighlightStyle.Render(match)
}
