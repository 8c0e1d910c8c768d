package output

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all text rendering.
const (
	colorAccent   = "154" // location/header lines
	colorGreen    = "76"  // success
	colorGray     = "245" // labels
	colorDarkGray = "238" // secondary metadata
	colorRed      = "196" // errors
	colorYellow   = "220" // scores
)

// Styles holds the render styles for text output.
type Styles struct {
	Header  lipgloss.Style
	Score   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Dim     lipgloss.Style
	Label   lipgloss.Style
}

// DefaultStyles returns the colored style set.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent)),
		Score:   lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow)),
		Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorGreen)),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorRed)),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(colorDarkGray)),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)),
	}
}

// NoColorStyles returns an unstyled set for pipes and NO_COLOR.
func NoColorStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle(),
		Score:   lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Dim:     lipgloss.NewStyle(),
		Label:   lipgloss.NewStyle(),
	}
}

// GetStyles picks a style set based on color preference.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}
