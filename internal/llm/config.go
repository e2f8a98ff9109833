package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderMock      = "mock"
)

// Config selects and configures the model backend. It is filled from the
// llm.* section of the application config.
type Config struct {
	Provider  string        `mapstructure:"provider"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Anthropic BackendConfig `mapstructure:"anthropic"`
	OpenAI    BackendConfig `mapstructure:"openai"`
	Gemini    BackendConfig `mapstructure:"gemini"`
	Retry     RetryConfig   `mapstructure:"retry"`
}

// BackendConfig is the per-backend section. BaseURL is optional and lets
// the openai backend reach compatible gateways.
type BackendConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

func DefaultConfig() Config {
	return Config{
		Provider:  ProviderAnthropic,
		Timeout:   60 * time.Second,
		Anthropic: BackendConfig{Model: defaultAnthropicModel},
		OpenAI:    BackendConfig{Model: defaultOpenAIModel},
		Gemini:    BackendConfig{Model: defaultGeminiModel},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
	}
}

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// DiscoverConfig looks for a well-known vendor API key in the environment
// when nothing was configured explicitly. An OpenRouter key selects the
// openai backend pointed at the OpenRouter gateway.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	switch {
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case os.Getenv("OPENAI_API_KEY") != "":
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	case os.Getenv("GEMINI_API_KEY") != "":
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	case os.Getenv("OPENROUTER_API_KEY") != "":
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = os.Getenv("OPENROUTER_API_KEY")
		cfg.OpenAI.BaseURL = openRouterBaseURL
		cfg.OpenAI.Model = "google/gemini-2.0-flash-001"
	default:
		return Config{}, false
	}
	return cfg, true
}

// Backend returns the section for the selected provider.
func (c Config) Backend() BackendConfig {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAI
	case ProviderGemini:
		return c.Gemini
	default:
		return c.Anthropic
	}
}

// Validate reports a missing key using the config key a user would set.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini:
		if c.Backend().APIKey == "" {
			return fmt.Errorf("llm.%s.api_key (or SKILLPATH_LLM_%s_API_KEY) is required for the %s provider",
				c.Provider, strings.ToUpper(c.Provider), c.Provider)
		}
		return nil
	default:
		return fmt.Errorf("unknown llm provider %q", c.Provider)
	}
}
