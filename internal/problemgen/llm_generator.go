package problemgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/skillpath/internal/assessment"
	"github.com/abhisek/skillpath/internal/llm"
)

// maxAttempts bounds regeneration after a retryable validation failure.
const maxAttempts = 2

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// questionSetOutput is the raw LLM response before validation.
type questionSetOutput struct {
	Questions []assessment.Raw `json:"questions"`
}

// Generate produces a validated question set for the given input.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*QuestionSet, error) {
	if g.provider == nil {
		return nil, fmt.Errorf("%w: no LLM provider configured", ErrGeneratorUnavailable)
	}
	if input.Count <= 0 {
		return nil, fmt.Errorf("question count must be positive, got %d", input.Count)
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeQuestionGen)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		set, err := g.generateOnce(ctx, input)
		if err == nil {
			return set, nil
		}
		lastErr = err

		var verr *ValidationError
		if !errors.As(err, &verr) || !verr.Retryable {
			break
		}
	}
	return nil, fmt.Errorf("%w: %w", ErrGeneratorUnavailable, lastErr)
}

func (g *LLMGenerator) generateOnce(ctx context.Context, input GenerateInput) (*QuestionSet, error) {
	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)},
		},
		Schema:      QuestionSetSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var out questionSetOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	for i := range out.Questions {
		out.Questions[i].OrderIndex = i
		if !g.config.AllowCodeChallenges && out.Questions[i].QuestionType == assessment.TypeCodeChallenge {
			return nil, &ValidationError{Validator: "types", Message: "code_challenge not allowed", Retryable: true}
		}
	}

	set := &QuestionSet{Raw: out.Questions}

	// Run validators in order.
	for _, v := range g.config.Validators {
		if verr := v.Validate(set, input); verr != nil {
			return nil, verr
		}
	}
	if len(set.Questions) != len(set.Raw) {
		qs, err := assessment.DecodeAll(set.Raw)
		if err != nil {
			return nil, &ValidationError{Validator: "decode", Message: err.Error()}
		}
		set.Questions = qs
	}
	return set, nil
}
