package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#7aa2f7")
	colorMuted   = lipgloss.Color("#565f89")
	colorText    = lipgloss.Color("#c0caf5")
	colorError   = lipgloss.Color("#f7768e")
	colorAccept  = lipgloss.Color("#9ece6a")
	colorEdited  = lipgloss.Color("#e0af68")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	cardBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2)

	cardLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorMuted)

	cardTextStyle = lipgloss.NewStyle().
			Foreground(colorText)

	badgePendingStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Bold(true)

	badgeAcceptedStyle = lipgloss.NewStyle().
				Foreground(colorAccept).
				Bold(true)

	badgeEditedStyle = lipgloss.NewStyle().
				Foreground(colorEdited).
				Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	successStyle = lipgloss.NewStyle().
			Foreground(colorAccept).
			Bold(true)

	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2)
)
