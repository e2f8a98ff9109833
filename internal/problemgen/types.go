package problemgen

import (
	"encoding/json"

	"github.com/abhisek/skillpath/internal/assessment"
	"github.com/abhisek/skillpath/internal/proficiency"
)

// GenerateInput holds all context needed to generate a question set.
type GenerateInput struct {
	SkillName     string
	SkillCategory string

	// Level is the proficiency level the questions should target.
	Level proficiency.Level

	// Count is the exact number of questions wanted.
	Count int

	// PriorQuestions contains the text of questions the learner has
	// already seen for this skill. Used for deduplication in the prompt.
	PriorQuestions []string
}

// QuestionSet is a generated, validated list of questions.
type QuestionSet struct {
	// Raw holds the questions in their stored shape, in order.
	Raw []assessment.Raw

	// Questions are the decoded questions, indexed like Raw.
	Questions []assessment.Question
}

// Snapshot returns the JSON form the set is persisted in.
func (s *QuestionSet) Snapshot() (json.RawMessage, error) {
	return json.Marshal(s.Raw)
}

// Texts returns the question texts, in order.
func (s *QuestionSet) Texts() []string {
	out := make([]string, len(s.Raw))
	for i, r := range s.Raw {
		out[i] = r.QuestionText
	}
	return out
}
