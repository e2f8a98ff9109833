package problemgen

import "fmt"

// Validator checks a generated question set.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator, e.g. "structural".
	Name() string

	// Validate returns nil if the set passes, or a ValidationError.
	Validate(set *QuestionSet, input GenerateInput) *ValidationError
}

// ValidationError describes why a question set failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
