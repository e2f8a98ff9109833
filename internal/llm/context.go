package llm

import "context"

type purposeKey struct{}

// Purposes recorded on llm events.
const (
	PurposeQuestionGen = "question-gen"
	PurposeCodeCheck   = "code-check"
)

// WithPurpose labels the requests made with ctx.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
