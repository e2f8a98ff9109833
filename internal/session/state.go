package session

import (
	"errors"
	"time"

	"github.com/abhisek/skillpath/internal/assessment"
	"github.com/abhisek/skillpath/internal/grading"
	"github.com/abhisek/skillpath/internal/mastery"
)

// State is a session's position in the attempt lifecycle.
type State int

const (
	StateNotStarted State = iota // Created, timer not armed
	StateInProgress              // Accepting answers
	StateSubmitting              // Graded, waiting for the durable write
	StateScored                  // Result recorded
	StateAbandoned               // Learner left before submitting
	StateFailed                  // Nothing gradable; the attempt is dead
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateInProgress:
		return "in-progress"
	case StateSubmitting:
		return "submitting"
	case StateScored:
		return "scored"
	case StateAbandoned:
		return "abandoned"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateScored || s == StateAbandoned || s == StateFailed
}

// Trigger says what caused a submission.
type Trigger string

const (
	TriggerManual  Trigger = "manual"
	TriggerTimeout Trigger = "timeout"
)

var (
	// ErrDuplicateSubmission marks a submission that lost the race to an
	// earlier one. Submit swallows it.
	ErrDuplicateSubmission = errors.New("duplicate submission")

	ErrNotInProgress    = errors.New("session is not in progress")
	ErrCheckPending     = errors.New("code check already pending for this question")
	ErrUnknownQuestion  = errors.New("unknown question")
	ErrNotCodeChallenge = errors.New("question is not a code challenge")
	// ErrNeedsCodeCheck is returned when a code challenge is answered
	// directly instead of through the code checker.
	ErrNeedsCodeCheck = errors.New("code challenge answers come from the code checker")
)

// Completion is a graded attempt handed to the Sink.
type Completion struct {
	AttemptID   string
	UserID      string
	Assessment  *assessment.Assessment
	Answers     map[string]string
	Outcome     *grading.Outcome
	Trigger     Trigger
	CompletedAt time.Time
}

// Receipt is what the Sink reports back after a durable write.
type Receipt struct {
	RecordID string
	// Duplicate is set when the attempt had already been stored.
	Duplicate bool
	Decision  mastery.Decision
}

// Result is the outcome of a scored session.
type Result struct {
	AttemptID string
	Outcome   *grading.Outcome
	Receipt   Receipt
	Trigger   Trigger
}
