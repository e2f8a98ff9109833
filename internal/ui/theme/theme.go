package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette
var (
	Primary   = lipgloss.Color("#3B82F6") // Blue
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#EF4444")
	Text      = lipgloss.Color("#E2E8F0")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Code = lipgloss.NewStyle().
		Foreground(Secondary).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(Border).
		PaddingLeft(1)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Answered = lipgloss.NewStyle().
			Foreground(Success)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Warning = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
)

// Card frames a block of content such as the result summary.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(1, 2)
