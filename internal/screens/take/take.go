// Package take is the screen a learner uses to work through one
// assessment attempt.
package take

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillpath/internal/assessment"
	"github.com/abhisek/skillpath/internal/session"
	"github.com/abhisek/skillpath/internal/ui/components"
	"github.com/abhisek/skillpath/internal/ui/layout"
)

type overlay int

const (
	overlayNone overlay = iota
	overlayConfirmSubmit
	overlayConfirmQuit
)

// Model drives a session.Session from keyboard input.
type Model struct {
	ctx  context.Context
	sess *session.Session

	width  int
	height int

	options components.OptionList
	code    components.CodeInput
	overlay overlay

	status    string
	err       error
	result    *session.Result
	abandoned bool
}

// New returns a screen for sess. The session is started by Init.
func New(ctx context.Context, sess *session.Session) *Model {
	m := &Model{ctx: ctx, sess: sess}
	m.loadQuestion()
	return m
}

// Result returns the scored result once the attempt is recorded.
func (m *Model) Result() *session.Result { return m.result }

// Abandoned reports whether the learner left without submitting.
func (m *Model) Abandoned() bool { return m.abandoned }

// Err returns the last error shown on screen.
func (m *Model) Err() error { return m.err }

func (m *Model) Init() tea.Cmd {
	m.sess.Start()
	return tea.Batch(tickCmd(), m.code.Init())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m.handleTick()

	case codeCheckedMsg:
		return m.handleCodeChecked(msg)

	case submittedMsg:
		return m.handleSubmitted(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	// A timeout submission happens on the session's own timer; pick up
	// its result here.
	switch m.sess.State() {
	case session.StateScored:
		if m.result == nil {
			m.result = m.sess.Result()
		}
		return m, nil
	case session.StateAbandoned, session.StateFailed:
		return m, nil
	case session.StateSubmitting:
		if m.status == "" {
			m.status = "Time is up. Saving your answers..."
		}
	}
	return m, tickCmd()
}

func (m *Model) handleCodeChecked(msg codeCheckedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.err = msg.Err
		m.status = ""
		return m, nil
	}
	m.err = nil
	m.status = fmt.Sprintf("Code check: %s", msg.Verdict)
	return m, nil
}

func (m *Model) handleSubmitted(msg submittedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.err = msg.Err
		m.status = "Saving failed. Press ctrl+s to retry."
		if m.sess.State() == session.StateFailed {
			m.status = "This attempt cannot be graded. Press esc to leave."
		}
		return m, nil
	}
	if msg.Result != nil {
		m.result = msg.Result
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.sess.Abandon()
		m.abandoned = m.sess.State() == session.StateAbandoned
		return m, tea.Quit
	}

	if m.result != nil {
		switch key {
		case "enter", "q", "esc":
			return m, tea.Quit
		}
		return m, nil
	}

	switch m.overlay {
	case overlayConfirmQuit:
		switch key {
		case "y", "Y":
			m.sess.Abandon()
			m.abandoned = true
			return m, tea.Quit
		case "n", "N", "esc":
			m.overlay = overlayNone
		}
		return m, nil
	case overlayConfirmSubmit:
		switch key {
		case "y", "Y":
			m.overlay = overlayNone
			return m, m.submitCmd()
		case "n", "N", "esc":
			m.overlay = overlayNone
		}
		return m, nil
	}

	state := m.sess.State()
	if state == session.StateFailed {
		switch key {
		case "enter", "q", "esc":
			return m, tea.Quit
		}
		return m, nil
	}
	if state == session.StateSubmitting {
		if key == "ctrl+s" {
			return m, m.submitCmd()
		}
		return m, nil
	}
	if state != session.StateInProgress {
		return m, nil
	}

	switch key {
	case "esc":
		m.overlay = overlayConfirmQuit
		return m, nil
	case "ctrl+s":
		if len(m.sess.Unanswered()) > 0 {
			m.overlay = overlayConfirmSubmit
			return m, nil
		}
		return m, m.submitCmd()
	case "tab", "right":
		if m.sess.Next() {
			m.loadQuestion()
		}
		return m, nil
	case "shift+tab", "left":
		if m.sess.Prev() {
			m.loadQuestion()
		}
		return m, nil
	}

	_, q, ok := m.sess.Current()
	if !ok {
		return m, nil
	}
	if q.Type() == assessment.TypeCodeChallenge {
		return m.handleCodeKey(msg)
	}
	return m.handleOptionKey(key)
}

func (m *Model) handleOptionKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		m.options.Up()
		return m, nil
	case "down", "j":
		m.options.Down()
		return m, nil
	case "enter", "space":
		return m, m.answer(m.options.Current())
	}
	if v, ok := m.options.AtDigit(key); ok {
		return m, m.answer(v)
	}
	return m, nil
}

func (m *Model) handleCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	i, _, _ := m.sess.Current()
	key := m.sess.Key(i)
	if msg.String() == "enter" {
		code := m.code.Value()
		if code == "" || m.sess.Checking(key) {
			return m, nil
		}
		m.status = "Checking your code..."
		m.err = nil
		return m, m.checkCmd(key, code)
	}
	var cmd tea.Cmd
	m.code, cmd = m.code.Update(msg)
	return m, cmd
}

func (m *Model) answer(value string) tea.Cmd {
	i, _, ok := m.sess.Current()
	if !ok {
		return nil
	}
	if err := m.sess.Answer(m.sess.Key(i), value); err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	m.options.Chosen = value
	return nil
}

// loadQuestion resets the per-question widgets for the question under the
// cursor.
func (m *Model) loadQuestion() {
	m.status = ""
	i, q, ok := m.sess.Current()
	if !ok {
		m.options = components.NewOptionList(nil, "")
		m.code = components.NewCodeInput("", "")
		return
	}
	key := m.sess.Key(i)
	chosen, _ := m.sess.AnswerFor(key)
	m.options = components.NewOptionList(q.Options(), chosen)

	draft := m.sess.Draft(key)
	if draft == "" {
		if ch, ok := q.Body.(assessment.CodeChallenge); ok {
			draft = ch.StarterCode
		}
	}
	m.code = components.NewCodeInput("type code, alt+enter for a new line", draft)
}

func (m *Model) checkCmd(key, code string) tea.Cmd {
	ctx, sess := m.ctx, m.sess
	return func() tea.Msg {
		verdict, err := sess.CheckCode(ctx, key, code)
		return codeCheckedMsg{Key: key, Verdict: verdict, Err: err}
	}
}

func (m *Model) submitCmd() tea.Cmd {
	m.status = "Submitting..."
	ctx, sess := m.ctx, m.sess
	return func() tea.Msg {
		res, err := sess.Submit(ctx, session.TriggerManual)
		return submittedMsg{Result: res, Err: err}
	}
}

func (m *Model) keyHints() []layout.KeyHint {
	switch {
	case m.result != nil:
		return []layout.KeyHint{{Key: "Enter", Description: "Done"}}
	case m.overlay != overlayNone:
		return []layout.KeyHint{{Key: "Y", Description: "Yes"}, {Key: "N", Description: "No"}}
	case m.sess.State() == session.StateFailed:
		return []layout.KeyHint{{Key: "Esc", Description: "Leave"}}
	}
	_, q, ok := m.sess.Current()
	if !ok {
		return []layout.KeyHint{
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Esc", Description: "Abandon"},
		}
	}
	hints := []layout.KeyHint{{Key: "Tab/Shift+Tab", Description: "Next/Prev"}}
	if q.Type() == assessment.TypeCodeChallenge {
		hints = append(hints,
			layout.KeyHint{Key: "Enter", Description: "Check code"},
			layout.KeyHint{Key: "Alt+Enter", Description: "New line"})
	} else {
		hints = append(hints, layout.KeyHint{Key: "1-9/Enter", Description: "Choose"})
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+S", Description: "Submit"},
		layout.KeyHint{Key: "Esc", Description: "Abandon"})
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
