package codecheck

import (
	"fmt"
	"strings"

	"github.com/abhisek/skillpath/internal/llm"
)

const systemPrompt = `You are a strict code reviewer grading a candidate's solution.

Rules:
- Decide whether the code, run as written, would produce the expected output for every test case.
- Do not fix the code. Syntax errors, missing functions and wrong output are all incorrect.
- Keep feedback to two sentences and do not include a corrected solution.
- Report how many test cases pass when test cases are given.`

// VerdictSchema defines the JSON schema for code check responses.
var VerdictSchema = &llm.Schema{
	Name:        "code-verdict",
	Description: "Whether submitted code satisfies a coding challenge",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"is_correct": map[string]any{
				"type":        "boolean",
				"description": "True only if every test case and the expected output are satisfied",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Short feedback for the candidate",
			},
			"passed_tests": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"description": "Number of passing test cases",
			},
			"total_tests": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"description": "Number of test cases evaluated",
			},
		},
		"required":             []any{"is_correct", "feedback", "passed_tests", "total_tests"},
		"additionalProperties": false,
	},
}

func buildUserMessage(req Request) string {
	var b strings.Builder

	lang := req.Language
	if lang == "" {
		lang = "unspecified"
	}
	fmt.Fprintf(&b, "Language: %s\n", lang)

	if len(req.TestCases) > 0 {
		b.WriteString("\nTest cases:\n")
		for i, tc := range req.TestCases {
			fmt.Fprintf(&b, "%d. input: %s\n   expected: %s\n", i+1, tc.Input, tc.ExpectedOutput)
		}
	}
	if req.ExpectedOutput != "" {
		fmt.Fprintf(&b, "\nExpected output:\n%s\n", req.ExpectedOutput)
	}

	fmt.Fprintf(&b, "\nSubmitted code:\n```\n%s\n```", req.Code)
	return b.String()
}
