package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#7D56F4")

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(accent)
	subtitleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	passwordStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(accent)
	celebrateStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
)

// scoreStyles colour strength labels from Very Weak (0) to Very Strong (4).
var scoreStyles = []lipgloss.Style{
	lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
	lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
	lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("34")),
	lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("28")),
}

func scoreStyle(score int) lipgloss.Style {
	if score < 0 || score >= len(scoreStyles) {
		return subtitleStyle
	}
	return scoreStyles[score]
}
