package cli

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	engineGreen = lipgloss.Color("#2E7D32")
	engineBlue  = lipgloss.Color("#1565C0")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(engineGreen)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	urlStyle = lipgloss.NewStyle().
			Foreground(engineBlue).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(engineGreen)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4B4B"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(engineGreen).
			Padding(1, 2)
)

// Banner returns the ASCII art banner.
func Banner() string {
	banner := `
  _____                            _
 |  ___|__  _ __ _ __ ___  _   _| | __ _
 | |_ / _ \| '__| '_ ' _ \| | | | |/ _' |
 |  _| (_) | |  | | | | | | |_| | | (_| |
 |_|  \___/|_|  |_| |_| |_|\__,_|_|\__,_|
`
	return titleStyle.Render(banner)
}
