package take

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillpath/internal/assessment"
	"github.com/abhisek/skillpath/internal/session"
	"github.com/abhisek/skillpath/internal/ui/components"
	"github.com/abhisek/skillpath/internal/ui/layout"
	"github.com/abhisek/skillpath/internal/ui/theme"
)

func (m *Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	header := layout.RenderHeader(m.sess.Assessment().Title, m.headerStatus(), m.width)
	footer := layout.RenderFooter(m.keyHints(), m.width)
	v.SetContent(layout.RenderFrame(header, m.Content(m.width), footer, m.width, m.height))
	return v
}

func (m *Model) headerStatus() string {
	i, _, _ := m.sess.Current()
	pos := fmt.Sprintf("Q %d/%d", i+1, m.sess.Len())
	if rem, timed := m.sess.Remaining(); timed {
		return pos + "  " + layout.FormatCountdown(rem)
	}
	return pos
}

// Content renders the body of the screen without header and footer.
func (m *Model) Content(width int) string {
	if m.result != nil {
		return renderResult(m.result, width)
	}
	switch m.overlay {
	case overlayConfirmQuit:
		return renderConfirm("Abandon this attempt? Nothing will be recorded.", width)
	case overlayConfirmSubmit:
		n := len(m.sess.Unanswered())
		return renderConfirm(fmt.Sprintf("%d question(s) unanswered. Unanswered questions score zero. Submit anyway?", n), width)
	}
	return m.renderQuestion(width)
}

func (m *Model) renderQuestion(width int) string {
	i, q, ok := m.sess.Current()
	if !ok {
		return m.renderEmpty(width)
	}
	key := m.sess.Key(i)

	var b strings.Builder
	b.WriteString(m.renderProgress())
	b.WriteString("\n\n")
	b.WriteString(theme.Title.Render(fmt.Sprintf("%d. %s", i+1, q.Text)))
	b.WriteString(theme.Hint.Render(fmt.Sprintf("  (%d pt)", q.Points)))
	b.WriteString("\n\n")

	switch body := q.Body.(type) {
	case assessment.CodeOutput:
		b.WriteString(theme.Code.Render(body.Code))
		b.WriteString("\n\n")
		b.WriteString(m.options.View())
	case assessment.CodeChallenge:
		b.WriteString(renderChallenge(body))
		b.WriteString("\n")
		if verdict, ok := m.sess.AnswerFor(key); ok {
			style := theme.Incorrect
			if verdict == assessment.VerdictCorrect {
				style = theme.Correct
			}
			b.WriteString(style.Render("Last check: " + verdict))
			b.WriteString("\n")
		}
		b.WriteString(m.code.View())
	default:
		b.WriteString(m.options.View())
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(theme.Hint.Render(m.status))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(theme.Incorrect.Render(m.err.Error()))
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().Width(width).Padding(0, 2).Render(b.String())
}

func (m *Model) renderEmpty(width int) string {
	var b strings.Builder
	b.WriteString(theme.Warning.Render("This assessment has no questions."))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(theme.Hint.Render(m.status))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(theme.Incorrect.Render(m.err.Error()))
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().Width(width).Padding(1, 2).Render(b.String())
}

// renderProgress shows one marker per question: filled when answered.
func (m *Model) renderProgress() string {
	cur, _, _ := m.sess.Current()
	answers := m.sess.Answers()
	var b strings.Builder
	for i := range m.sess.Len() {
		mark := "○"
		style := theme.Unselected
		if _, ok := answers[m.sess.Key(i)]; ok {
			mark = "●"
			style = theme.Answered
		}
		if i == cur {
			style = theme.Selected
		}
		b.WriteString(style.Render(mark))
		b.WriteString(" ")
	}
	return b.String()
}

func renderChallenge(ch assessment.CodeChallenge) string {
	var b strings.Builder
	if ch.Language != "" {
		b.WriteString(theme.Hint.Render("Language: " + ch.Language))
		b.WriteString("\n")
	}
	for j, tc := range ch.TestCases {
		fmt.Fprintf(&b, "Test %d: %s -> %s\n", j+1, tc.Input, tc.ExpectedOutput)
	}
	if ch.ExpectedOutput != "" {
		b.WriteString("Expected output: " + ch.ExpectedOutput + "\n")
	}
	return b.String()
}

func renderConfirm(question string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("\n\n" + theme.Warning.Render(question) + "\n\n" + theme.Hint.Render("y / n"))
}

func renderResult(res *session.Result, width int) string {
	out := res.Outcome
	var b strings.Builder
	b.WriteString(theme.Title.Render("Attempt recorded"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Score: %d / %d\n", out.Score, out.MaxScore)
	b.WriteString(components.ScoreBar{Label: "Result", Percent: out.Percentage, Width: min(width-8, 60)}.View())
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Calculated level: %s\n", out.Level)
	if res.Trigger == session.TriggerTimeout {
		b.WriteString(theme.Warning.Render("Submitted automatically when time ran out."))
		b.WriteString("\n")
	}

	d := res.Receipt.Decision
	switch {
	case res.Receipt.Duplicate:
		b.WriteString(theme.Hint.Render("This attempt had already been recorded."))
	case d.Upgraded:
		b.WriteString(theme.Correct.Render(fmt.Sprintf("Skill level raised: %s -> %s", d.From, d.To)))
	case d.SkillID != "":
		b.WriteString(theme.Hint.Render(fmt.Sprintf("Skill level unchanged (%s)", d.Reason)))
	}
	return lipgloss.NewStyle().Width(width).Padding(1, 2).Render(theme.Card.Render(b.String()))
}
