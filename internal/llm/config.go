package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider names.
const (
	ProviderOllama    = "ollama"
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderMock      = "mock"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434/v1"
	defaultGroqBaseURL   = "https://api.groq.com/openai/v1"
)

// Config holds all LLM provider configuration.
type Config struct {
	Ollama    OpenAIConfig
	Groq      OpenAIConfig
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
	Gemini    GeminiConfig
	Retry     RetryConfig

	// EnableMock registers the mock provider as an offline demo backend.
	// Set by READQUIZ_ENABLE_MOCK.
	EnableMock bool

	// Timeout bounds a single LLM request including retries.
	Timeout time.Duration
}

// OpenAIConfig configures any OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string

	// NativeSchema reports whether the endpoint accepts json_schema
	// response formats. When false, schema requests fall back to
	// json_object mode plus local validation.
	NativeSchema bool
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64

	// Timeout bounds all attempts of one call together. Zero means none.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Ollama: OpenAIConfig{
			Model:   "gemma3:12b",
			BaseURL: defaultOllamaBaseURL,
		},
		Groq: OpenAIConfig{
			Model:   "llama-3.1-8b-instant",
			BaseURL: defaultGroqBaseURL,
		},
		OpenAI: OpenAIConfig{
			Model:        "gpt-4o-mini",
			NativeSchema: true,
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 120 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if u := os.Getenv("READQUIZ_OLLAMA_BASE_URL"); u != "" {
		cfg.Ollama.BaseURL = u
	}
	if m := os.Getenv("READQUIZ_OLLAMA_MODEL"); m != "" {
		cfg.Ollama.Model = m
	}

	if k := os.Getenv("GROQ_API_KEY"); k != "" {
		cfg.Groq.APIKey = k
	}
	if m := os.Getenv("READQUIZ_GROQ_MODEL"); m != "" {
		cfg.Groq.Model = m
	}

	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.OpenAI.APIKey = k
	}
	if m := os.Getenv("READQUIZ_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}

	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Anthropic.APIKey = k
	}
	if m := os.Getenv("READQUIZ_ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Gemini.APIKey = k
	}
	if m := os.Getenv("READQUIZ_GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}

	if v := os.Getenv("READQUIZ_ENABLE_MOCK"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			cfg.EnableMock = on
		}
	}

	if t := os.Getenv("READQUIZ_LLM_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.Timeout = d
		}
	}

	return cfg
}

// Validate checks that the named provider has what it needs to run.
func (c Config) Validate(provider string) error {
	switch provider {
	case ProviderOllama:
		if c.Ollama.BaseURL == "" {
			return &ErrNotConfigured{Provider: provider, Setting: "READQUIZ_OLLAMA_BASE_URL"}
		}
	case ProviderGroq:
		if c.Groq.APIKey == "" {
			return &ErrNotConfigured{Provider: provider, Setting: "GROQ_API_KEY"}
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return &ErrNotConfigured{Provider: provider, Setting: "OPENAI_API_KEY"}
		}
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return &ErrNotConfigured{Provider: provider, Setting: "ANTHROPIC_API_KEY"}
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return &ErrNotConfigured{Provider: provider, Setting: "GEMINI_API_KEY"}
		}
	case ProviderMock:
		if !c.EnableMock {
			return fmt.Errorf("unknown LLM provider: %q", provider)
		}
	default:
		return fmt.Errorf("unknown LLM provider: %q", provider)
	}
	return nil
}

// DefaultModel returns the configured default model for provider.
func (c Config) DefaultModel(provider string) string {
	switch provider {
	case ProviderOllama:
		return c.Ollama.Model
	case ProviderGroq:
		return c.Groq.Model
	case ProviderOpenAI:
		return c.OpenAI.Model
	case ProviderAnthropic:
		return resolveModel(c.Anthropic.Model, anthropicModels)
	case ProviderGemini:
		return resolveModel(c.Gemini.Model, geminiModels)
	case ProviderMock:
		return "mock"
	}
	return ""
}
