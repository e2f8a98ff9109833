package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// NewProvider builds the configured backend and wraps it as
// caller → timeout → retry → recording → backend, so every attempt is
// recorded and the timeout bounds the whole retry loop.
func NewProvider(ctx context.Context, cfg Config, events EventRecorder, logger *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	var p Provider = WithRetry(WithRecording(base, cfg.Provider, events, logger), cfg.Retry)
	if cfg.Timeout > 0 {
		p = &timeoutProvider{inner: p, timeout: cfg.Timeout}
	}
	return p, nil
}

type timeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

func (t *timeoutProvider) ModelID() string { return t.inner.ModelID() }

func (t *timeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}
