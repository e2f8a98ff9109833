package store

import (
	"context"
	"time"

	"github.com/abhisek/skillpath/internal/assessment"
	"github.com/abhisek/skillpath/internal/skills"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// SkillRepo manages the skill catalog.
type SkillRepo interface {
	// Upsert inserts or renames/recategorizes a skill by ID.
	Upsert(ctx context.Context, s skills.Skill) error
	Get(ctx context.Context, id string) (*skills.Skill, error)
	List(ctx context.Context) ([]skills.Skill, error)
}

// UserSkillRepo manages learner skill records.
type UserSkillRepo interface {
	// Put creates or replaces a learner's record for a skill. Only the
	// learner-facing path uses it; scoring never creates records.
	Put(ctx context.Context, us skills.UserSkill) error

	// Get returns the learner's record, or nil if none exists.
	Get(ctx context.Context, userID, skillID string) (*skills.UserSkill, error)

	// SetLevel updates the level of an existing record. It returns
	// ErrNotFound when there is nothing to update.
	SetLevel(ctx context.Context, userID, skillID, level string) error

	ListByUser(ctx context.Context, userID string) ([]skills.UserSkill, error)
}

// JobRoleRepo manages job roles and their skill requirements.
type JobRoleRepo interface {
	// Upsert stores a role and replaces its requirement list.
	Upsert(ctx context.Context, role skills.JobRole) error
	Get(ctx context.Context, id string) (*skills.JobRole, error)
	List(ctx context.Context) ([]skills.JobRole, error)
	ListIDs(ctx context.Context) ([]string, error)
}

// AssessmentRepo manages catalog assessments.
type AssessmentRepo interface {
	// Upsert stores an assessment and replaces its questions.
	Upsert(ctx context.Context, a *assessment.Assessment) error

	// Get returns the assessment with its questions decoded and ordered.
	Get(ctx context.Context, id string) (*assessment.Assessment, error)

	// List returns assessments without their questions.
	List(ctx context.Context) ([]AssessmentSummary, error)
}

// AssessmentSummary is an assessment header for listings.
type AssessmentSummary struct {
	ID               string
	Title            string
	SkillID          string
	TimeLimitMinutes *int
	QuestionCount    int
}

// Result is a completed standard attempt.
type Result struct {
	ID              string            `json:"id"`
	AttemptID       string            `json:"attempt_id"`
	UserID          string            `json:"user_id"`
	AssessmentID    string            `json:"assessment_id"`
	Score           int               `json:"score"`
	MaxScore        int               `json:"max_score"`
	Percentage      int               `json:"percentage"`
	CalculatedLevel string            `json:"calculated_level"`
	Answers         map[string]string `json:"answers"`
	Trigger         string            `json:"trigger"`
	CompletedAt     time.Time         `json:"completed_at"`
}

// AdaptiveResult is a completed adaptive attempt with its question snapshot.
type AdaptiveResult struct {
	ID              string            `json:"id"`
	AttemptID       string            `json:"attempt_id"`
	UserID          string            `json:"user_id"`
	SkillID         string            `json:"skill_id"`
	DifficultyLevel string            `json:"difficulty_level"`
	Questions       []byte            `json:"-"`
	Answers         map[string]string `json:"answers"`
	Score           int               `json:"score"`
	MaxScore        int               `json:"max_score"`
	Percentage      int               `json:"percentage"`
	CalculatedLevel string            `json:"calculated_level"`
	Trigger         string            `json:"trigger"`
	CompletedAt     time.Time         `json:"completed_at"`
}

// ResultRepo stores completed attempts. Inserts are keyed by attempt ID:
// inserting the same attempt twice returns the stored row and created=false.
type ResultRepo interface {
	InsertResult(ctx context.Context, r *Result) (stored *Result, created bool, err error)
	InsertAdaptive(ctx context.Context, r *AdaptiveResult) (stored *AdaptiveResult, created bool, err error)

	ListResults(ctx context.Context, userID string, limit int) ([]Result, error)
	ListAdaptive(ctx context.Context, userID string, limit int) ([]AdaptiveResult, error)
	GetAdaptive(ctx context.Context, id string) (*AdaptiveResult, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EscalationEventData records one escalation decision.
type EscalationEventData struct {
	UserID          string
	SkillID         string
	AttemptID       string
	FromLevel       string
	ToLevel         string
	CalculatedLevel string
	Upgraded        bool
	Trigger         string
}

// EscalationEvent is a stored escalation decision.
type EscalationEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	EscalationEventData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
	// GetLLMEvent returns nil when no event has the given ID.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	AppendEscalation(ctx context.Context, data EscalationEventData) error
	QueryEscalations(ctx context.Context, userID string, opts QueryOpts) ([]EscalationEvent, error)
}
