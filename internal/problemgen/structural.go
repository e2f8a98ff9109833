package problemgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/skillpath/internal/assessment"
)

const maxQuestionTextLen = 1000

// StructuralValidator checks the question count, decodes every question
// and enforces length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(set *QuestionSet, input GenerateInput) *ValidationError {
	if len(set.Raw) != input.Count {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected %d questions, got %d", input.Count, len(set.Raw)),
			Retryable: true,
		}
	}

	set.Questions = set.Questions[:0]
	for i, raw := range set.Raw {
		if len(raw.QuestionText) > maxQuestionTextLen {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("question %d: question_text exceeds %d characters", i, maxQuestionTextLen),
				Retryable: true,
			}
		}
		if raw.QuestionType == assessment.TypeCodeChallenge && strings.TrimSpace(raw.Language) == "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("question %d: code_challenge without language", i),
				Retryable: true,
			}
		}
		q, err := assessment.Decode(raw)
		if err != nil {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("question %d: %v", i, err),
				Retryable: true,
			}
		}
		set.Questions = append(set.Questions, q)
	}
	return nil
}

// DuplicateValidator rejects sets that repeat a question, either within the
// set or from the learner's prior questions.
type DuplicateValidator struct{}

func (v *DuplicateValidator) Name() string { return "duplicate" }

func (v *DuplicateValidator) Validate(set *QuestionSet, input GenerateInput) *ValidationError {
	seen := make(map[string]bool, len(set.Raw)+len(input.PriorQuestions))
	for _, p := range input.PriorQuestions {
		seen[normalizeText(p)] = true
	}
	for i, raw := range set.Raw {
		key := normalizeText(raw.QuestionText)
		if seen[key] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("question %d repeats an earlier question", i),
				Retryable: true,
			}
		}
		seen[key] = true
	}
	return nil
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
