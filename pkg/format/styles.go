package format

import (
	"github.com/charmbracelet/lipgloss"
)

// Warm terminal palette shared by all rendered output.
var (
	colorMuted  = lipgloss.Color("#5c5044")
	colorText   = lipgloss.Color("#ab937b")
	colorBright = lipgloss.Color("#f5d7b9")
	colorOrange = lipgloss.Color("#eb8755")
	colorYellow = lipgloss.Color("#f5b761")
	colorGreen  = lipgloss.Color("#93b56b")
	colorRed    = lipgloss.Color("#d95f5f")
	colorCyan   = lipgloss.Color("#61afaf")
)

var (
	userPrefixStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorOrange)

	assistantPrefixStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorGreen)

	flaggedStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	streamingStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	bodyStyle = lipgloss.NewStyle().
			Foreground(colorText)

	reportBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	reportTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBright)

	reportKindStyle = lipgloss.NewStyle().
			Foreground(colorCyan)

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorYellow)

	insightStyle = lipgloss.NewStyle().
			Foreground(colorGreen)
)
