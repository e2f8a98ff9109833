// Package config resolves settings from flags, SKILLPATH_* environment
// variables, an optional skillpath.yaml and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/abhisek/skillpath/internal/adaptive"
	"github.com/abhisek/skillpath/internal/llm"
	"github.com/abhisek/skillpath/internal/store"
)

const EnvPrefix = "SKILLPATH"

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	LLM      llm.Config     `mapstructure:"llm"`
	Adaptive AdaptiveConfig `mapstructure:"adaptive"`
	Server   ServerConfig   `mapstructure:"server"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// File switches logging to a rotating JSON file.
	File string `mapstructure:"file"`
}

type AdaptiveConfig struct {
	QuestionCount    int `mapstructure:"question_count"`
	TimeLimitMinutes int `mapstructure:"time_limit_minutes"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Options carry the values that come from the command line. A Viper with
// flags already bound may be passed in; otherwise a fresh one is used.
type Options struct {
	ConfigFile string
	Viper      *viper.Viper
}

// Load resolves the configuration. A missing config file is not an error;
// a malformed one is.
func Load(opts Options) (*Config, error) {
	v := opts.Viper
	if v == nil {
		v = viper.New()
	}
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("skillpath")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "skillpath"))
		}
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || opts.ConfigFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.LLM = withDiscoveredKey(cfg.LLM)

	if cfg.Database.Path == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.Database.Path = p
	}
	if cfg.Adaptive.QuestionCount <= 0 {
		return nil, fmt.Errorf("adaptive.question_count must be positive, got %d", cfg.Adaptive.QuestionCount)
	}
	if cfg.Adaptive.TimeLimitMinutes < 0 {
		return nil, fmt.Errorf("adaptive.time_limit_minutes must not be negative")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()

	v.SetDefault("database.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("llm.provider", d.Provider)
	v.SetDefault("llm.timeout", d.Timeout)
	for name, b := range map[string]llm.BackendConfig{
		"anthropic": d.Anthropic,
		"openai":    d.OpenAI,
		"gemini":    d.Gemini,
	} {
		v.SetDefault("llm."+name+".api_key", "")
		v.SetDefault("llm."+name+".model", b.Model)
		v.SetDefault("llm."+name+".base_url", "")
	}
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)
	v.SetDefault("adaptive.question_count", adaptive.DefaultQuestionCount)
	v.SetDefault("adaptive.time_limit_minutes", 0)
	v.SetDefault("server.addr", ":8080")
}

// withDiscoveredKey falls back to a vendor key from the environment when
// the configured backend has none. Timeout and retry settings are kept.
func withDiscoveredKey(cfg llm.Config) llm.Config {
	if cfg.Provider == llm.ProviderMock || cfg.Backend().APIKey != "" {
		return cfg
	}
	found, ok := llm.DiscoverConfig()
	if !ok {
		return cfg
	}
	found.Timeout = cfg.Timeout
	found.Retry = cfg.Retry
	return found
}
