package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-flash"

var geminiAliases = map[string]string{
	"gemini-flash": "gemini-2.0-flash",
	"gemini-pro":   "gemini-2.0-pro",
}

// GeminiProvider talks to the Gemini API backend of the genai SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, cfg BackendConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	cc := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return &GeminiProvider{
		client: client,
		model:  resolveModel(cfg.Model, defaultGeminiModel, geminiAliases),
	}, nil
}

func (p *GeminiProvider) ModelID() string { return p.model }

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	gc := &genai.GenerateContentConfig{MaxOutputTokens: int32(req.MaxTokens)}
	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		gc.Temperature = &temp
	}
	if req.System != "" {
		gc.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	if req.Schema != nil {
		gc.ResponseMIMEType = "application/json"
		gc.ResponseSchema = toGeminiSchema(req.Schema.Definition)
	}

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []*genai.Part{{Text: m.Content}}})
	}

	out, err := p.client.Models.GenerateContent(ctx, p.model, contents, gc)
	if err != nil {
		var apiErr *genai.APIError
		if errors.As(err, &apiErr) {
			return nil, classifyStatus(apiErr.Code, err)
		}
		return nil, &ErrProviderUnavailable{Err: err}
	}

	resp := &Response{
		Content:    json.RawMessage(out.Text()),
		Model:      p.model,
		StopReason: StopEnd,
	}
	if len(out.Candidates) > 0 && out.Candidates[0].FinishReason == "MAX_TOKENS" {
		resp.StopReason = StopMaxTokens
	}
	if u := out.UsageMetadata; u != nil {
		resp.Usage = Usage{
			InputTokens:  int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
			TotalTokens:  int(u.TotalTokenCount),
		}
	}
	return finish(req, resp)
}

// toGeminiSchema converts the subset of JSON Schema used by our response
// schemas. Keywords Gemini does not model, like additionalProperties, are
// dropped; validation still enforces them on the way back.
func toGeminiSchema(def map[string]any) *genai.Schema {
	s := &genai.Schema{}
	if t, ok := def["type"].(string); ok {
		s.Type = genai.Type(strings.ToUpper(t))
	}
	s.Description, _ = def["description"].(string)
	if props, ok := def["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, v := range props {
			if sub, ok := v.(map[string]any); ok {
				s.Properties[name] = toGeminiSchema(sub)
			}
		}
	}
	s.Required = stringList(def["required"])
	s.Enum = stringList(def["enum"])
	if items, ok := def["items"].(map[string]any); ok {
		s.Items = toGeminiSchema(items)
	}
	return s
}

// stringList accepts both []string and []any, since schemas built in Go
// literals and schemas decoded from JSON differ here.
func stringList(v any) []string {
	switch xs := v.(type) {
	case []string:
		return xs
	case []any:
		var out []string
		for _, x := range xs {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
