package llm

import (
	"context"
	"encoding/json"
)

// Provider generates structured JSON from a prompt. Question generation and
// code checking both go through it.
type Provider interface {
	// Generate sends the request and returns the model output. When the
	// request carries a Schema the returned Content has already been
	// validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the resolved model identifier.
	ModelID() string
}

// Request is a single-turn prompt.
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema definition the response must satisfy. Name is
// also the cache key for the compiled form, so it must be unique per shape.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// finish applies the checks every backend shares: truncated output is an
// error and schema-bound output must validate.
func finish(req Request, resp *Response) (*Response, error) {
	if resp.StopReason == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: resp.Content}
	}
	if err := validateResponse(req.Schema, resp.Content); err != nil {
		return nil, err
	}
	return resp, nil
}

// resolveModel maps an alias to a concrete model id. Unknown names pass through.
func resolveModel(name, fallback string, aliases map[string]string) string {
	if name == "" {
		name = fallback
	}
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
