package assessment

import (
	"encoding/json"
	"sort"
	"time"
)

// Kind distinguishes catalog assessments from generated ones.
type Kind string

const (
	KindStandard Kind = "standard"
	KindAdaptive Kind = "adaptive"
)

// Assessment is an ordered set of questions, optionally time-boxed.
type Assessment struct {
	ID               string
	Title            string
	Description      string
	SkillID          string
	Kind             Kind
	Difficulty       string
	TimeLimitMinutes *int
	Questions        []Question

	// Snapshot is the generated question set exactly as received, kept so
	// an adaptive attempt can be stored and re-rendered verbatim.
	Snapshot json.RawMessage
}

// Timed reports whether the assessment has a positive time limit.
func (a *Assessment) Timed() bool {
	return a.TimeLimitMinutes != nil && *a.TimeLimitMinutes > 0
}

// TimeLimit returns the time box, or 0 when untimed.
func (a *Assessment) TimeLimit() time.Duration {
	if !a.Timed() {
		return 0
	}
	return time.Duration(*a.TimeLimitMinutes) * time.Minute
}

// SortQuestions orders questions by order_index, keeping the input order on ties.
func (a *Assessment) SortQuestions() {
	sort.SliceStable(a.Questions, func(i, j int) bool {
		return a.Questions[i].OrderIndex < a.Questions[j].OrderIndex
	})
}

// AnswerKey returns the key the i-th question is answered under: its ID for
// stored questions, its index for generated ones.
func (a *Assessment) AnswerKey(i int) string {
	if a.Kind == KindAdaptive || a.Questions[i].ID == "" {
		return IndexKey(i)
	}
	return a.Questions[i].ID
}

// MaxScore is the sum of question points.
func (a *Assessment) MaxScore() int {
	total := 0
	for _, q := range a.Questions {
		total += q.Points
	}
	return total
}

// Minutes is a helper for building optional time limits.
func Minutes(n int) *int {
	return &n
}
