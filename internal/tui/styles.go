package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.AdaptiveColor{Light: "4", Dark: "12"}
	dim     = lipgloss.AdaptiveColor{Light: "240", Dark: "245"}
	danger  = lipgloss.AdaptiveColor{Light: "1", Dark: "9"}
	success = lipgloss.AdaptiveColor{Light: "2", Dark: "10"}
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1)
	labelStyle    = lipgloss.NewStyle().Width(labelWidth).Foreground(dim)
	errorStyle    = lipgloss.NewStyle().Foreground(danger)
	noticeStyle   = lipgloss.NewStyle().Foreground(success)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	mutedStyle    = lipgloss.NewStyle().Foreground(dim)
)

// labelWidth fits the longest form label.
const labelWidth = 16

// panel returns a rounded border, accented when focused.
func panel(focused bool) lipgloss.Style {
	color := lipgloss.TerminalColor(dim)
	if focused {
		color = accent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)
}
