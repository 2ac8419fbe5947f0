package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorInk       = lipgloss.Color("#EDE7DD")
	ColorDim       = lipgloss.Color("#8A8577")
	ColorAccent    = lipgloss.Color("#E8A87C")
	ColorAccentAlt = lipgloss.Color("#D97E4A")
	ColorSuccess   = lipgloss.Color("#9CB380")
	ColorWarn      = lipgloss.Color("#E3C567")
	ColorErr       = lipgloss.Color("#C95D63")
)
