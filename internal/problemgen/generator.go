package problemgen

import (
	"context"
	"errors"
)

// ErrGeneratorUnavailable is returned when no valid question set could be
// produced. Callers may retry.
var ErrGeneratorUnavailable = errors.New("question generator unavailable")

// Generator produces assessment question sets using an LLM provider.
type Generator interface {
	// Generate produces a validated question set for the given input.
	// All configured validators are run before returning.
	Generate(ctx context.Context, input GenerateInput) (*QuestionSet, error)
}
