package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/vadiminshakov/corridormap/internal/heatmap"
)

const (
	cellWidth  = 9
	cellHeight = 1
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	muted     = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	danger    = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(0, 2).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().Foreground(muted)

	periodStyle = lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1)

	activePeriodStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(highlight).
				Bold(true).
				Padding(0, 1)

	axisStyle = lipgloss.NewStyle().Foreground(muted).Bold(true)

	emptyCellStyle = lipgloss.NewStyle().
			Foreground(subtle).
			Width(cellWidth).
			Align(lipgloss.Center)

	tooltipStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(0, 1)

	tooltipLabelStyle = lipgloss.NewStyle().Foreground(muted).Width(16)
	statusStyle       = lipgloss.NewStyle().Foreground(special)
	errorStyle        = lipgloss.NewStyle().Foreground(danger)
	helpStyle         = lipgloss.NewStyle().Foreground(subtle)
)

// cellStyle colours a populated cell by bucket and opacity tier.
// Terminals have no alpha channel, so opacity maps to font weight.
func cellStyle(bucket heatmap.Bucket, opacity heatmap.Opacity, focused bool) lipgloss.Style {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(bucket.Hex())).
		Width(cellWidth).
		Align(lipgloss.Center)

	switch opacity {
	case heatmap.OpacityFull:
		style = style.Bold(true)
	case heatmap.OpacityMedium:
		style = style.Faint(true)
	}
	if focused {
		style = style.Underline(true).Reverse(true)
	}
	return style
}

func swatch(bucket heatmap.Bucket) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(bucket.Hex())).Render("  ")
}
