// Package assessment defines assessments and their typed questions.
package assessment

import (
	"errors"
	"fmt"
	"strconv"
)

// Type is the question_type discriminator.
type Type string

const (
	TypeMCQ           Type = "mcq"
	TypeCodeOutput    Type = "code_output"
	TypeCodeChallenge Type = "code_challenge"
)

// Verdict tokens recorded as the answer to a code challenge.
const (
	VerdictCorrect   = "correct"
	VerdictIncorrect = "incorrect"
)

// ErrInvalidQuestion is returned when a stored or generated question cannot
// be decoded into one of the known variants.
var ErrInvalidQuestion = errors.New("invalid question")

// Body is the type-specific payload of a question.
type Body interface {
	Type() Type
	// Correct reports whether answer earns the question's points.
	Correct(answer string) bool
}

// MCQ is a multiple choice question.
type MCQ struct {
	Options       []string
	CorrectAnswer string
}

func (MCQ) Type() Type { return TypeMCQ }

func (b MCQ) Correct(answer string) bool { return answer == b.CorrectAnswer }

// CodeOutput asks for the output of a snippet, picked from options.
type CodeOutput struct {
	Code          string
	Options       []string
	CorrectAnswer string
}

func (CodeOutput) Type() Type { return TypeCodeOutput }

func (b CodeOutput) Correct(answer string) bool { return answer == b.CorrectAnswer }

// TestCase is one input/expected output pair for a code challenge.
type TestCase struct {
	Input          string `json:"input" yaml:"input"`
	ExpectedOutput string `json:"expected_output" yaml:"expected_output"`
}

// CodeChallenge asks the learner to write code. Its answer is the verdict
// token produced by the code checker, never the code itself.
type CodeChallenge struct {
	Language       string
	StarterCode    string
	TestCases      []TestCase
	ExpectedOutput string
}

func (CodeChallenge) Type() Type { return TypeCodeChallenge }

func (CodeChallenge) Correct(answer string) bool { return answer == VerdictCorrect }

// Question is a decoded question.
type Question struct {
	ID         string
	Text       string
	Points     int
	OrderIndex int
	Body       Body
}

// Type returns the question's discriminator.
func (q Question) Type() Type {
	if q.Body == nil {
		return ""
	}
	return q.Body.Type()
}

// Options returns the choices for option-based questions.
func (q Question) Options() []string {
	switch b := q.Body.(type) {
	case MCQ:
		return b.Options
	case CodeOutput:
		return b.Options
	}
	return nil
}

// Raw is the flat stored shape of a question, shared by the database,
// catalog files and generated snapshots.
type Raw struct {
	ID             string     `json:"id,omitempty" yaml:"id,omitempty"`
	QuestionType   Type       `json:"question_type" yaml:"question_type"`
	QuestionText   string     `json:"question_text" yaml:"question_text"`
	Points         int        `json:"points,omitempty" yaml:"points,omitempty"`
	OrderIndex     int        `json:"order_index" yaml:"order_index"`
	Options        []string   `json:"options,omitempty" yaml:"options,omitempty"`
	CorrectAnswer  string     `json:"correct_answer,omitempty" yaml:"correct_answer,omitempty"`
	Code           string     `json:"code,omitempty" yaml:"code,omitempty"`
	StarterCode    string     `json:"starter_code,omitempty" yaml:"starter_code,omitempty"`
	Language       string     `json:"language,omitempty" yaml:"language,omitempty"`
	TestCases      []TestCase `json:"test_cases,omitempty" yaml:"test_cases,omitempty"`
	ExpectedOutput string     `json:"expected_output,omitempty" yaml:"expected_output,omitempty"`
}

// Decode validates raw and converts it to a Question. Points default to 1.
func Decode(raw Raw) (Question, error) {
	q := Question{
		ID:         raw.ID,
		Text:       raw.QuestionText,
		Points:     raw.Points,
		OrderIndex: raw.OrderIndex,
	}
	if q.Points == 0 {
		q.Points = 1
	}
	if q.Points < 0 {
		return Question{}, fmt.Errorf("%w: negative points %d", ErrInvalidQuestion, raw.Points)
	}
	if raw.QuestionText == "" {
		return Question{}, fmt.Errorf("%w: empty question text", ErrInvalidQuestion)
	}

	switch raw.QuestionType {
	case TypeMCQ:
		if err := checkOptions(raw); err != nil {
			return Question{}, err
		}
		q.Body = MCQ{Options: raw.Options, CorrectAnswer: raw.CorrectAnswer}
	case TypeCodeOutput:
		if raw.Code == "" {
			return Question{}, fmt.Errorf("%w: code_output without code", ErrInvalidQuestion)
		}
		if err := checkOptions(raw); err != nil {
			return Question{}, err
		}
		q.Body = CodeOutput{Code: raw.Code, Options: raw.Options, CorrectAnswer: raw.CorrectAnswer}
	case TypeCodeChallenge:
		if len(raw.TestCases) == 0 && raw.ExpectedOutput == "" {
			return Question{}, fmt.Errorf("%w: code_challenge needs test cases or expected output", ErrInvalidQuestion)
		}
		q.Body = CodeChallenge{
			Language:       raw.Language,
			StarterCode:    raw.StarterCode,
			TestCases:      raw.TestCases,
			ExpectedOutput: raw.ExpectedOutput,
		}
	default:
		return Question{}, fmt.Errorf("%w: unknown question_type %q", ErrInvalidQuestion, raw.QuestionType)
	}
	return q, nil
}

func checkOptions(raw Raw) error {
	if len(raw.Options) < 2 {
		return fmt.Errorf("%w: %s needs at least 2 options", ErrInvalidQuestion, raw.QuestionType)
	}
	if raw.CorrectAnswer == "" {
		return fmt.Errorf("%w: %s without correct_answer", ErrInvalidQuestion, raw.QuestionType)
	}
	for _, o := range raw.Options {
		if o == raw.CorrectAnswer {
			return nil
		}
	}
	return fmt.Errorf("%w: correct_answer %q not among options", ErrInvalidQuestion, raw.CorrectAnswer)
}

// Encode converts q back to the flat stored shape.
func Encode(q Question) Raw {
	raw := Raw{
		ID:           q.ID,
		QuestionText: q.Text,
		Points:       q.Points,
		OrderIndex:   q.OrderIndex,
	}
	switch b := q.Body.(type) {
	case MCQ:
		raw.QuestionType = TypeMCQ
		raw.Options = b.Options
		raw.CorrectAnswer = b.CorrectAnswer
	case CodeOutput:
		raw.QuestionType = TypeCodeOutput
		raw.Code = b.Code
		raw.Options = b.Options
		raw.CorrectAnswer = b.CorrectAnswer
	case CodeChallenge:
		raw.QuestionType = TypeCodeChallenge
		raw.Language = b.Language
		raw.StarterCode = b.StarterCode
		raw.TestCases = b.TestCases
		raw.ExpectedOutput = b.ExpectedOutput
	}
	return raw
}

// DecodeAll decodes a list of raw questions, reporting the position of the
// first failure.
func DecodeAll(raws []Raw) ([]Question, error) {
	qs := make([]Question, 0, len(raws))
	for i, r := range raws {
		q, err := Decode(r)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		qs = append(qs, q)
	}
	return qs, nil
}

// IndexKey is the answer key used for questions that have no persisted ID.
func IndexKey(i int) string {
	return strconv.Itoa(i)
}
