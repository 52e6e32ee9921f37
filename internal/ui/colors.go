package ui

import "github.com/charmbracelet/lipgloss"

// SineWave brand colors, tuned per terminal background.
var (
	waveBlue  = lipgloss.AdaptiveColor{Light: "#1F5FBF", Dark: "#5AA9FF"}
	waveGreen = lipgloss.AdaptiveColor{Light: "#1A7F4B", Dark: "#3DDC97"}
	waveRed   = lipgloss.AdaptiveColor{Light: "#B3261E", Dark: "#FF6B6B"}
	waveAmber = lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#F5C451"}
	waveMuted = lipgloss.AdaptiveColor{Light: "#6E6E6E", Dark: "#8A8A8A"}
)

// theme holds the styles for status lines and the session-ended screen.
type theme struct {
	heading lipgloss.Style
	status  lipgloss.Style
	failure lipgloss.Style
	notice  lipgloss.Style
	hint    lipgloss.Style
}

var styles = theme{
	heading: lipgloss.NewStyle().Foreground(waveBlue).Bold(true).Underline(true).MarginBottom(1),
	status:  lipgloss.NewStyle().Foreground(waveGreen),
	failure: lipgloss.NewStyle().Foreground(waveRed).Bold(true),
	notice:  lipgloss.NewStyle().Foreground(waveAmber),
	hint:    lipgloss.NewStyle().Foreground(waveMuted).Faint(true),
}
