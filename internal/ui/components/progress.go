package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillpath/internal/ui/theme"
)

// ScoreBar renders a percentage score as a horizontal bar.
type ScoreBar struct {
	Label   string
	Percent int
	Width   int
}

func (p ScoreBar) View() string {
	var label string
	if p.Label != "" {
		label = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}
	pct := min(max(p.Percent, 0), 100)

	barWidth := max(p.Width-lipgloss.Width(label)-6, 4)
	filled := barWidth * pct / 100
	bar := lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))

	return label + bar + lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf(" %3d%%", pct))
}
