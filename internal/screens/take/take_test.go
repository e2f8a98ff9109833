package take

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillpath/internal/assessment"
	"github.com/abhisek/skillpath/internal/session"
)

type fakeSink struct {
	mu    sync.Mutex
	err   error
	calls int
	last  *session.Completion
}

func (f *fakeSink) Record(_ context.Context, c *session.Completion) (*session.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	f.last = c
	return &session.Receipt{RecordID: "r-" + c.AttemptID}, nil
}

type fakeChecker struct{ pass bool }

func (f fakeChecker) CheckCode(context.Context, assessment.CodeChallenge, string) (bool, error) {
	return f.pass, nil
}

// manualClock fires its single timer when Fire is called.
type manualClock struct {
	now time.Time
	f   func()
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) AfterFunc(_ time.Duration, f func()) session.Timer {
	c.f = f
	return stopper{}
}

type stopper struct{}

func (stopper) Stop() bool { return true }

func testAssessment(timed bool) *assessment.Assessment {
	a := &assessment.Assessment{
		ID:      "go-basics",
		Title:   "Go Basics",
		SkillID: "go",
		Kind:    assessment.KindStandard,
		Questions: []assessment.Question{
			{ID: "q1", Text: "Zero value of int?", Points: 1, Body: assessment.MCQ{Options: []string{"0", "nil", "1"}, CorrectAnswer: "0"}},
			{ID: "q2", Text: "What prints?", Points: 1, Body: assessment.CodeOutput{Code: "fmt.Println(len(\"go\"))", Options: []string{"1", "2"}, CorrectAnswer: "2"}},
			{ID: "q3", Text: "Reverse a string", Points: 2, Body: assessment.CodeChallenge{Language: "go"}},
		},
	}
	if timed {
		a.TimeLimitMinutes = assessment.Minutes(10)
	}
	return a
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune, mod ...tea.KeyMod) tea.KeyPressMsg {
	k := tea.KeyPressMsg{Code: code}
	for _, m := range mod {
		k.Mod |= m
	}
	return k
}

func ctrlS() tea.KeyPressMsg { return specialKey('s', tea.ModCtrl) }

func newModel(t *testing.T, sink *fakeSink, opts ...session.Option) *Model {
	t.Helper()
	opts = append(opts, session.WithCodeChecker(fakeChecker{pass: true}))
	sess := session.New(testAssessment(false), "u1", sink, opts...)
	m := New(context.Background(), sess)
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	m.Update(cmd())
}

func TestTake_AnswerWithDigitsAndNavigate(t *testing.T) {
	m := newModel(t, &fakeSink{})

	m.Update(keyPress('1'))
	got, ok := m.sess.AnswerFor("q1")
	require.True(t, ok)
	assert.Equal(t, "0", got)

	m.Update(specialKey(tea.KeyTab))
	i, _, _ := m.sess.Current()
	assert.Equal(t, 1, i)

	m.Update(specialKey(tea.KeyDown))
	m.Update(specialKey(tea.KeyEnter))
	got, _ = m.sess.AnswerFor("q2")
	assert.Equal(t, "2", got)

	m.Update(specialKey(tea.KeyTab, tea.ModShift))
	i, _, _ = m.sess.Current()
	assert.Equal(t, 0, i)
	assert.Equal(t, "0", m.options.Chosen, "chosen option restored on return")
}

func TestTake_CodeChallengeUsesChecker(t *testing.T) {
	m := newModel(t, &fakeSink{})
	m.Update(specialKey(tea.KeyTab))
	m.Update(specialKey(tea.KeyTab))

	// Digits go to the code input on a code challenge.
	for _, r := range "s[1]" {
		m.Update(keyPress(r))
	}
	_, ok := m.sess.AnswerFor("q3")
	assert.False(t, ok)

	_, cmd := m.Update(specialKey(tea.KeyEnter))
	run(t, m, cmd)
	verdict, ok := m.sess.AnswerFor("q3")
	require.True(t, ok)
	assert.Equal(t, assessment.VerdictCorrect, verdict)
	assert.Equal(t, "s[1]", m.sess.Draft("q3"))
	assert.Contains(t, m.Content(100), "Last check: correct")
}

func TestTake_SubmitWarnsAboutUnanswered(t *testing.T) {
	sink := &fakeSink{}
	m := newModel(t, sink)
	m.Update(keyPress('1'))

	m.Update(ctrlS())
	require.Equal(t, overlayConfirmSubmit, m.overlay)
	assert.Contains(t, m.Content(100), "2 question(s) unanswered")

	m.Update(keyPress('n'))
	assert.Equal(t, overlayNone, m.overlay)
	assert.Equal(t, session.StateInProgress, m.sess.State())

	m.Update(ctrlS())
	_, cmd := m.Update(keyPress('y'))
	run(t, m, cmd)

	require.NotNil(t, m.Result())
	assert.Equal(t, 1, sink.calls)
	assert.Equal(t, session.TriggerManual, sink.last.Trigger)
	assert.Equal(t, 1, m.Result().Outcome.Score)
	assert.Contains(t, m.Content(100), "Attempt recorded")

	_, cmd = m.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestTake_RetryAfterFailedSave(t *testing.T) {
	sink := &fakeSink{err: errors.New("disk full")}
	m := newModel(t, sink)

	m.Update(ctrlS())
	_, cmd := m.Update(keyPress('y'))
	run(t, m, cmd)
	assert.Nil(t, m.Result())
	assert.Equal(t, session.StateSubmitting, m.sess.State())
	assert.Contains(t, m.Content(100), "ctrl+s to retry")

	sink.mu.Lock()
	sink.err = nil
	sink.mu.Unlock()
	_, cmd = m.Update(ctrlS())
	run(t, m, cmd)
	require.NotNil(t, m.Result())
	assert.Equal(t, 2, sink.calls)
}

func TestTake_Abandon(t *testing.T) {
	sink := &fakeSink{}
	m := newModel(t, sink)

	m.Update(specialKey(tea.KeyEscape))
	require.Equal(t, overlayConfirmQuit, m.overlay)
	_, cmd := m.Update(keyPress('y'))

	require.NotNil(t, cmd)
	assert.True(t, m.Abandoned())
	assert.Equal(t, session.StateAbandoned, m.sess.State())
	assert.Zero(t, sink.calls)
}

func TestTake_TimeoutPickedUpOnTick(t *testing.T) {
	sink := &fakeSink{}
	clock := &manualClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	sess := session.New(testAssessment(true), "u1", sink, session.WithClock(clock))
	m := New(context.Background(), sess)
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.Contains(t, m.headerStatus(), "10:00")
	m.Update(keyPress('1'))

	require.NotNil(t, clock.f)
	clock.f()

	_, cmd := m.Update(tickMsg(clock.now))
	assert.Nil(t, cmd, "ticking stops once scored")
	require.NotNil(t, m.Result())
	assert.Equal(t, session.TriggerTimeout, m.Result().Trigger)
	assert.True(t, strings.Contains(m.Content(100), "time ran out"))

	// Keys no longer change answers.
	m.Update(keyPress('2'))
	got, _ := sess.AnswerFor("q1")
	assert.Equal(t, "0", got)
}

func TestTake_View(t *testing.T) {
	m := newModel(t, &fakeSink{})
	assert.True(t, m.View().AltScreen)
	assert.Contains(t, m.headerStatus(), "Q 1/3")
	assert.Contains(t, m.Content(100), "Zero value of int?")
}

func TestTake_EmptyAssessmentFailsAtSubmit(t *testing.T) {
	sink := &fakeSink{}
	sess := session.New(&assessment.Assessment{ID: "empty", Title: "Empty"}, "u1", sink)
	m := New(context.Background(), sess)
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.True(t, m.View().AltScreen)
	assert.Contains(t, m.Content(100), "no questions")
	assert.Equal(t, "Q 0/0", m.headerStatus())

	m.Update(keyPress('1'))
	m.Update(specialKey(tea.KeyTab))

	_, cmd := m.Update(ctrlS())
	run(t, m, cmd)
	assert.Equal(t, session.StateFailed, sess.State())
	assert.Contains(t, m.Content(100), "cannot be graded")
	assert.Equal(t, 0, sink.calls)

	_, cmd = m.Update(specialKey(tea.KeyEscape))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Nil(t, m.Result())
	assert.Error(t, m.Err())
}
