package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func questionSchema() *Schema {
	return &Schema{
		Name: "validate-test-question",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question_text": map[string]any{"type": "string", "minLength": 1},
				"points":        map[string]any{"type": "integer", "minimum": 1},
				"question_type": map[string]any{"type": "string", "enum": []string{"mcq", "code_output", "code_challenge"}},
				"test_cases": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"input":           map[string]any{"type": "string"},
							"expected_output": map[string]any{"type": "string"},
						},
						"required": []string{"input", "expected_output"},
					},
				},
			},
			"required":             []string{"question_text", "points", "question_type"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"valid", `{"question_text":"q","points":2,"question_type":"mcq"}`, true},
		{"nested valid", `{"question_text":"q","points":1,"question_type":"code_challenge","test_cases":[{"input":"1","expected_output":"2"}]}`, true},
		{"missing required", `{"question_text":"q","points":2}`, false},
		{"wrong type", `{"question_text":"q","points":"two","question_type":"mcq"}`, false},
		{"bad enum", `{"question_text":"q","points":1,"question_type":"essay"}`, false},
		{"extra property", `{"question_text":"q","points":1,"question_type":"mcq","hint":"h"}`, false},
		{"nested missing", `{"question_text":"q","points":1,"question_type":"code_challenge","test_cases":[{"input":"1"}]}`, false},
		{"malformed", `{"question_text":`, false},
		{"empty", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(questionSchema(), json.RawMessage(tt.raw))
			if tt.valid {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			var invalid *ErrInvalidResponse
			if !errors.As(err, &invalid) {
				t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
			}
			if string(invalid.Content) != tt.raw {
				t.Errorf("content = %q, want %q", invalid.Content, tt.raw)
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not json`)); err != nil {
		t.Fatalf("nil schema should accept anything, got %v", err)
	}
}
