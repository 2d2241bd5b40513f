package viewer

import "github.com/charmbracelet/lipgloss"

// Color palette, matching the rest of the CLI surface.
const (
	colorLime     = "154" // accents, current result marker
	colorWhite    = "255" // result text
	colorGray     = "245" // labels, key hints
	colorDarkGray = "238" // borders
	colorYellow   = "220" // diagnostics
)

// Styles holds the viewer's lipgloss styles.
type Styles struct {
	Header   lipgloss.Style
	Source   lipgloss.Style
	Score    lipgloss.Style
	Status   lipgloss.Style
	KeyHints lipgloss.Style
	Panel    lipgloss.Style
}

// DefaultStyles returns the styled viewer theme.
func DefaultStyles() Styles {
	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorLime)),
		Source:   lipgloss.NewStyle().Foreground(lipgloss.Color(colorWhite)),
		Score:    lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow)),
		KeyHints: lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorDarkGray)).
			Padding(0, 1),
	}
}
