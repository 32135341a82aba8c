package theme

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha.
var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Yellow   = lipgloss.Color("#f9e2af")
	Red      = lipgloss.Color("#f38ba8")
	Peach    = lipgloss.Color("#fab387")

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(1)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Good  = lipgloss.NewStyle().Foreground(Green)
	Bad   = lipgloss.NewStyle().Foreground(Red)
	Warn  = lipgloss.NewStyle().Foreground(Yellow)
)

// Status colors an experiment status label.
func Status(status string) string {
	switch status {
	case "active":
		return Good.Render(status)
	case "paused":
		return Warn.Render(status)
	case "completed":
		return Title.Render(status)
	}
	return Muted.Render(status)
}

// Direction colors a trend direction. Whether "up" is good depends on the
// metric, so stress is inverted.
func Direction(metric, direction, label string) string {
	up, down := Good, Bad
	if metric == "stress" {
		up, down = Bad, Good
	}
	switch direction {
	case "up":
		return up.Render(label)
	case "down":
		return down.Render(label)
	}
	return Muted.Render(label)
}
