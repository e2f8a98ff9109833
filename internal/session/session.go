// Package session runs a single timed assessment attempt from start to a
// recorded result.
package session

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/skillpath/internal/assessment"
	"github.com/abhisek/skillpath/internal/codecheck"
	"github.com/abhisek/skillpath/internal/grading"
)

// Sink durably records a completed attempt and applies its consequences.
// Record must be idempotent per AttemptID.
type Sink interface {
	Record(ctx context.Context, c *Completion) (*Receipt, error)
}

// CodeChecker judges a code challenge submission.
type CodeChecker interface {
	CheckCode(ctx context.Context, ch assessment.CodeChallenge, code string) (bool, error)
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithCodeChecker sets the checker used by CheckCode.
func WithCodeChecker(c CodeChecker) Option {
	return func(s *Session) { s.checker = c }
}

// WithTimeoutHandler registers a callback for submissions made by the
// timer. It runs on the timer's goroutine.
func WithTimeoutHandler(fn func(*Result, error)) Option {
	return func(s *Session) { s.onTimeout = fn }
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithAttemptID overrides the generated attempt ID.
func WithAttemptID(id string) Option {
	return func(s *Session) { s.attemptID = id }
}

// Session owns one attempt: its answers, cursor and countdown.
// All methods are safe for concurrent use.
type Session struct {
	a         *assessment.Assessment
	userID    string
	attemptID string
	sink      Sink
	checker   CodeChecker
	clock     Clock
	onTimeout func(*Result, error)
	logger    *zap.Logger

	keys  []string
	index map[string]int

	mu          sync.Mutex
	state       State
	answers     map[string]string
	drafts      map[string]string
	pending     map[string]bool
	current     int
	timer       Timer
	deadline    time.Time
	inFlight    bool
	completedAt time.Time
	result      *Result
}

// New creates a session for userID taking a.
func New(a *assessment.Assessment, userID string, sink Sink, opts ...Option) *Session {
	s := &Session{
		a:       a,
		userID:  userID,
		sink:    sink,
		clock:   realClock{},
		logger:  zap.NewNop(),
		answers: make(map[string]string),
		drafts:  make(map[string]string),
		pending: make(map[string]bool),
		index:   make(map[string]int, len(a.Questions)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.attemptID == "" {
		s.attemptID = uuid.NewString()
	}
	s.keys = make([]string, len(a.Questions))
	for i := range a.Questions {
		k := a.AnswerKey(i)
		s.keys[i] = k
		s.index[k] = i
	}
	s.logger = s.logger.With(zap.String("attempt_id", s.attemptID), zap.String("assessment_id", a.ID))
	return s
}

// Assessment returns the assessment being taken.
func (s *Session) Assessment() *assessment.Assessment { return s.a }

// AttemptID returns the attempt's unique ID.
func (s *Session) AttemptID() string { return s.attemptID }

// UserID returns the learner taking the attempt.
func (s *Session) UserID() string { return s.userID }

// Len returns the number of questions.
func (s *Session) Len() int { return len(s.keys) }

// Key returns the answer key of question i.
func (s *Session) Key(i int) string { return s.keys[i] }

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start moves the session into progress and arms the countdown when the
// assessment is timed. Calling Start again is a no-op.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateNotStarted {
		return
	}
	s.state = StateInProgress
	if limit := s.a.TimeLimit(); limit > 0 {
		s.deadline = s.clock.Now().Add(limit)
		s.timer = s.clock.AfterFunc(limit, s.expire)
	}
	s.logger.Debug("session started", zap.Duration("time_limit", s.a.TimeLimit()))
}

// Answer records value for the question under key, replacing any earlier
// answer. Code challenges are answered through CheckCode.
func (s *Session) Answer(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return ErrNotInProgress
	}
	i, ok := s.index[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, key)
	}
	if s.a.Questions[i].Type() == assessment.TypeCodeChallenge {
		return ErrNeedsCodeCheck
	}
	s.answers[key] = value
	return nil
}

// CheckCode sends code for the code challenge under key to the checker and
// records the verdict as the answer. The session stays usable while the
// check runs. A checker failure leaves the previous answer untouched.
func (s *Session) CheckCode(ctx context.Context, key, code string) (string, error) {
	s.mu.Lock()
	if s.state != StateInProgress {
		s.mu.Unlock()
		return "", ErrNotInProgress
	}
	i, ok := s.index[key]
	if !ok {
		s.mu.Unlock()
		return "", fmt.Errorf("%w: %s", ErrUnknownQuestion, key)
	}
	ch, ok := s.a.Questions[i].Body.(assessment.CodeChallenge)
	if !ok {
		s.mu.Unlock()
		return "", ErrNotCodeChallenge
	}
	if s.checker == nil {
		s.mu.Unlock()
		return "", codecheck.ErrCheckerUnavailable
	}
	if s.pending[key] {
		s.mu.Unlock()
		return "", ErrCheckPending
	}
	s.pending[key] = true
	s.drafts[key] = code
	s.mu.Unlock()

	passed, err := s.checker.CheckCode(ctx, ch, code)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, key)
	if err != nil {
		if !errors.Is(err, codecheck.ErrCheckerUnavailable) {
			err = fmt.Errorf("%w: %w", codecheck.ErrCheckerUnavailable, err)
		}
		s.logger.Warn("code check failed", zap.String("question", key), zap.Error(err))
		return "", err
	}
	if s.state != StateInProgress {
		return "", ErrNotInProgress
	}
	verdict := assessment.VerdictIncorrect
	if passed {
		verdict = assessment.VerdictCorrect
	}
	s.answers[key] = verdict
	return verdict, nil
}

// AnswerFor returns the recorded answer for key.
func (s *Session) AnswerFor(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.answers[key]
	return v, ok
}

// Draft returns the last code sent to the checker for key.
func (s *Session) Draft(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drafts[key]
}

// Checking reports whether a code check for key is in flight.
func (s *Session) Checking(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[key]
}

// Answers returns a copy of all recorded answers.
func (s *Session) Answers() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.answers)
}

// Unanswered returns the keys of questions without an answer, in order.
func (s *Session) Unanswered() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, k := range s.keys {
		if _, ok := s.answers[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

// Current returns the cursor position and the question under it. ok is
// false when the assessment has no questions.
func (s *Session) Current() (i int, q assessment.Question, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.keys) == 0 {
		return -1, assessment.Question{}, false
	}
	return s.current, s.a.Questions[s.current], true
}

// GoTo moves the cursor to question i.
func (s *Session) GoTo(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return ErrNotInProgress
	}
	if i < 0 || i >= len(s.keys) {
		return fmt.Errorf("%w: index %d", ErrUnknownQuestion, i)
	}
	s.current = i
	return nil
}

// Next advances the cursor and reports whether it moved.
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress || s.current >= len(s.keys)-1 {
		return false
	}
	s.current++
	return true
}

// Prev moves the cursor back and reports whether it moved.
func (s *Session) Prev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress || s.current == 0 {
		return false
	}
	s.current--
	return true
}

// Remaining returns the time left and whether the session is timed.
func (s *Session) Remaining() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deadline.IsZero() {
		return 0, false
	}
	return max(s.deadline.Sub(s.clock.Now()), 0), true
}

// Result returns the recorded result, or nil before the session is scored.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Submit grades the attempt and records it through the Sink. Only the first
// submission is recorded: a later or concurrent one returns the existing
// result (nil while the first is still being written) and no error.
// If the Sink fails the session stays in StateSubmitting and Submit may
// be called again.
func (s *Session) Submit(ctx context.Context, trigger Trigger) (*Result, error) {
	res, err := s.submit(ctx, trigger)
	if errors.Is(err, ErrDuplicateSubmission) {
		s.logger.Debug("duplicate submission ignored", zap.String("trigger", string(trigger)))
		return res, nil
	}
	return res, err
}

func (s *Session) submit(ctx context.Context, trigger Trigger) (*Result, error) {
	s.mu.Lock()
	switch {
	case s.state == StateScored:
		res := s.result
		s.mu.Unlock()
		return res, ErrDuplicateSubmission
	case s.state == StateSubmitting && s.inFlight:
		s.mu.Unlock()
		return nil, ErrDuplicateSubmission
	case s.state == StateInProgress, s.state == StateSubmitting:
	default:
		st := s.state
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNotInProgress, st)
	}
	s.state = StateSubmitting
	s.inFlight = true
	s.stopTimerLocked()
	if s.completedAt.IsZero() {
		s.completedAt = s.clock.Now().UTC()
	}
	answers := maps.Clone(s.answers)
	completedAt := s.completedAt
	s.mu.Unlock()

	outcome, err := grading.Grade(s.a, answers)
	if err != nil {
		s.mu.Lock()
		s.state = StateFailed
		s.inFlight = false
		s.mu.Unlock()
		return nil, err
	}

	receipt, err := s.sink.Record(ctx, &Completion{
		AttemptID:   s.attemptID,
		UserID:      s.userID,
		Assessment:  s.a,
		Answers:     answers,
		Outcome:     outcome,
		Trigger:     trigger,
		CompletedAt: completedAt,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		s.logger.Error("record attempt failed", zap.String("trigger", string(trigger)), zap.Error(err))
		return nil, fmt.Errorf("record attempt: %w", err)
	}
	s.state = StateScored
	s.result = &Result{
		AttemptID: s.attemptID,
		Outcome:   outcome,
		Receipt:   *receipt,
		Trigger:   trigger,
	}
	s.logger.Info("attempt scored",
		zap.String("trigger", string(trigger)),
		zap.Int("score", outcome.Score),
		zap.Int("max_score", outcome.MaxScore),
		zap.String("level", string(outcome.Level)),
	)
	return s.result, nil
}

// Abandon ends an unsubmitted session without recording anything.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
	if s.state == StateNotStarted || s.state == StateInProgress {
		s.state = StateAbandoned
		s.logger.Debug("session abandoned")
	}
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// expire is the countdown callback.
func (s *Session) expire() {
	res, err := s.submit(context.Background(), TriggerTimeout)
	if errors.Is(err, ErrDuplicateSubmission) || errors.Is(err, ErrNotInProgress) {
		return
	}
	if s.onTimeout != nil {
		s.onTimeout(res, err)
	}
}
