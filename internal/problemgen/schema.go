package problemgen

import "github.com/abhisek/skillpath/internal/llm"

// QuestionSetSchema defines the JSON schema for LLM question set responses.
// Every property is required; fields that do not apply to a question type
// are sent empty.
var QuestionSetSchema = &llm.Schema{
	Name:        "skill-assessment",
	Description: "An ordered set of assessment questions for one skill at one proficiency level",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":  "array",
				"items": questionItemSchema,
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

var questionItemSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"question_type": map[string]any{
			"type":        "string",
			"enum":        []any{"mcq", "code_output", "code_challenge"},
			"description": "mcq: pick an option. code_output: predict the output of code. code_challenge: write code.",
		},
		"question_text": map[string]any{
			"type":        "string",
			"description": "The question prompt shown to the learner",
		},
		"points": map[string]any{
			"type":        "integer",
			"minimum":     1,
			"maximum":     5,
			"description": "Points awarded for a correct answer",
		},
		"options": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "4 options for mcq and code_output. Empty array for code_challenge.",
		},
		"correct_answer": map[string]any{
			"type":        "string",
			"description": "The exact text of the correct option. Empty for code_challenge.",
		},
		"code": map[string]any{
			"type":        "string",
			"description": "The snippet for code_output. Empty otherwise.",
		},
		"starter_code": map[string]any{
			"type":        "string",
			"description": "Starter code for code_challenge. Empty otherwise.",
		},
		"language": map[string]any{
			"type":        "string",
			"description": "Programming language of code or starter_code. Empty for mcq.",
		},
		"test_cases": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"input":           map[string]any{"type": "string"},
					"expected_output": map[string]any{"type": "string"},
				},
				"required":             []any{"input", "expected_output"},
				"additionalProperties": false,
			},
			"description": "Test cases for code_challenge. Empty array otherwise.",
		},
		"expected_output": map[string]any{
			"type":        "string",
			"description": "Overall expected output for code_challenge. Empty otherwise.",
		},
	},
	"required": []any{
		"question_type", "question_text", "points", "options", "correct_answer",
		"code", "starter_code", "language", "test_cases", "expected_output",
	},
	"additionalProperties": false,
}
