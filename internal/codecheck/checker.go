// Package codecheck judges code challenge submissions with an LLM.
package codecheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/skillpath/internal/assessment"
	"github.com/abhisek/skillpath/internal/llm"
)

// ErrCheckerUnavailable is returned when no verdict could be obtained.
var ErrCheckerUnavailable = errors.New("code checker unavailable")

// Request is the input to a code check.
type Request struct {
	Code           string
	Language       string
	TestCases      []assessment.TestCase
	ExpectedOutput string
}

// Verdict is the checker's judgement.
type Verdict struct {
	IsCorrect   bool   `json:"is_correct"`
	Feedback    string `json:"feedback"`
	PassedTests *int   `json:"passed_tests,omitempty"`
	TotalTests  *int   `json:"total_tests,omitempty"`
}

// Token maps the verdict to the answer recorded for the question.
func (v *Verdict) Token() string {
	if v.IsCorrect {
		return assessment.VerdictCorrect
	}
	return assessment.VerdictIncorrect
}

// Checker evaluates code against a challenge's expectations using an LLM.
type Checker struct {
	provider  llm.Provider
	maxTokens int
}

// New creates a Checker. A nil provider yields a checker that always
// reports ErrCheckerUnavailable.
func New(provider llm.Provider) *Checker {
	return &Checker{provider: provider, maxTokens: 1024}
}

// Check asks the model whether req.Code satisfies the expectations.
func (c *Checker) Check(ctx context.Context, req Request) (*Verdict, error) {
	if c.provider == nil {
		return nil, fmt.Errorf("%w: no LLM provider configured", ErrCheckerUnavailable)
	}
	if strings.TrimSpace(req.Code) == "" {
		return &Verdict{Feedback: "No code submitted."}, nil
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeCodeCheck)

	resp, err := c.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req)},
		},
		Schema:    VerdictSchema,
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCheckerUnavailable, err)
	}

	var v Verdict
	if err := json.Unmarshal(resp.Content, &v); err != nil {
		return nil, fmt.Errorf("%w: parse verdict: %w", ErrCheckerUnavailable, err)
	}
	return &v, nil
}

// CheckCode adapts Check to a code challenge question.
func (c *Checker) CheckCode(ctx context.Context, ch assessment.CodeChallenge, code string) (bool, error) {
	v, err := c.Check(ctx, Request{
		Code:           code,
		Language:       ch.Language,
		TestCases:      ch.TestCases,
		ExpectedOutput: ch.ExpectedOutput,
	})
	if err != nil {
		return false, err
	}
	return v.IsCorrect, nil
}
