package internal

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the styles used for human-readable output.
type Theme struct {
	Primary lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Danger  lipgloss.Color
	Muted   lipgloss.Color

	TitleStyle lipgloss.Style
	LabelStyle lipgloss.Style
	MutedStyle lipgloss.Style

	StatusSuccess  lipgloss.Style
	StatusWarning  lipgloss.Style
	StatusRejected lipgloss.Style
	StatusFailed   lipgloss.Style
}

// DefaultTheme returns the amber palette.
func DefaultTheme() *Theme {
	theme := &Theme{
		Primary: lipgloss.Color("#FFD966"),
		Success: lipgloss.Color("#FFB000"),
		Warning: lipgloss.Color("#CC8C00"),
		Danger:  lipgloss.Color("#FF5F00"),
		Muted:   lipgloss.Color("#805800"),
	}

	theme.TitleStyle = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)
	theme.LabelStyle = lipgloss.NewStyle().
		Foreground(theme.Primary)
	theme.MutedStyle = lipgloss.NewStyle().
		Foreground(theme.Muted)

	theme.StatusSuccess = lipgloss.NewStyle().
		Foreground(theme.Success).
		Bold(true)
	theme.StatusWarning = lipgloss.NewStyle().
		Foreground(theme.Warning)
	theme.StatusRejected = lipgloss.NewStyle().
		Foreground(theme.Warning).
		Bold(true)
	theme.StatusFailed = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#000000")).
		Background(theme.Danger).
		Bold(true)

	return theme
}

// Status renders a step or run status word in its color. Unknown words
// are rendered muted.
func (t *Theme) Status(status string) string {
	switch status {
	case "success", "FINALIZE":
		return t.StatusSuccess.Render(status)
	case "warning":
		return t.StatusWarning.Render(status)
	case "rejected", "REJECTED":
		return t.StatusRejected.Render(status)
	case "failed", "FAILED":
		return t.StatusFailed.Render(status)
	default:
		return t.MutedStyle.Render(status)
	}
}
