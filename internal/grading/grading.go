// Package grading scores an attempt and classifies the learner's level.
package grading

import (
	"errors"
	"math"

	"github.com/abhisek/skillpath/internal/assessment"
	"github.com/abhisek/skillpath/internal/proficiency"
)

// ErrNoGradableQuestions is returned when an assessment carries no points.
var ErrNoGradableQuestions = errors.New("no gradable questions")

// Level thresholds on the percentage score.
const (
	AdvancedThreshold     = 90
	IntermediateThreshold = 70
)

// Outcome is the graded result of one attempt.
type Outcome struct {
	Score      int
	MaxScore   int
	Percentage int
	Level      proficiency.Level

	// Correct is indexed like the assessment's questions.
	Correct    []bool
	Answered   int
	Unanswered []string
}

// Grade scores answers against a's questions. Answers are keyed by
// Assessment.AnswerKey; a missing key counts as wrong.
func Grade(a *assessment.Assessment, answers map[string]string) (*Outcome, error) {
	out := &Outcome{Correct: make([]bool, len(a.Questions))}
	for i, q := range a.Questions {
		out.MaxScore += q.Points

		key := a.AnswerKey(i)
		ans, ok := answers[key]
		if !ok {
			out.Unanswered = append(out.Unanswered, key)
			continue
		}
		out.Answered++
		if q.Body != nil && q.Body.Correct(ans) {
			out.Correct[i] = true
			out.Score += q.Points
		}
	}
	if out.MaxScore == 0 {
		return nil, ErrNoGradableQuestions
	}
	out.Percentage = Percentage(out.Score, out.MaxScore)
	out.Level = CalculateLevel(out.Percentage)
	return out, nil
}

// Percentage rounds score/max to the nearest whole percent, halves away from zero.
func Percentage(score, max int) int {
	if max <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(max)))
}

// CalculateLevel maps a percentage to the level demonstrated by the attempt.
func CalculateLevel(percentage int) proficiency.Level {
	switch {
	case percentage >= AdvancedThreshold:
		return proficiency.Advanced
	case percentage >= IntermediateThreshold:
		return proficiency.Intermediate
	default:
		return proficiency.Beginner
	}
}
