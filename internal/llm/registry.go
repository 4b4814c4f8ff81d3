package llm

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
)

// Registry holds one wrapped Provider per configured provider name.
type Registry struct {
	cfg       Config
	mu        sync.RWMutex
	providers map[string]Provider
	order     []string
}

// NewRegistry builds every provider the configuration enables. Providers
// missing credentials are skipped; asking for them later yields
// *ErrNotConfigured.
func NewRegistry(ctx context.Context, cfg Config, logger *log.Logger) (*Registry, error) {
	r := &Registry{cfg: cfg, providers: make(map[string]Provider)}
	retry := cfg.Retry
	retry.Timeout = cfg.Timeout

	for _, name := range []string{ProviderOllama, ProviderGroq, ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderMock} {
		if err := cfg.Validate(name); err != nil {
			continue
		}
		p, err := NewProvider(ctx, name, cfg)
		if err != nil {
			return nil, fmt.Errorf("initializing %s provider: %w", name, err)
		}
		// caller → retry → logging → base
		r.register(name, WithRetry(WithLogging(p, logger), retry))
	}
	return r, nil
}

// NewProvider creates the bare provider for name.
func NewProvider(ctx context.Context, name string, cfg Config) (Provider, error) {
	switch name {
	case ProviderOllama:
		return NewOllamaProvider(cfg.Ollama)
	case ProviderGroq:
		return NewGroqProvider(cfg.Groq)
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.OpenAI)
	case ProviderAnthropic:
		return NewAnthropicProvider(cfg.Anthropic)
	case ProviderGemini:
		return NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		return NewDemoProvider(), nil
	}
	return nil, fmt.Errorf("unknown LLM provider: %q", name)
}

// Register adds or replaces a provider under its Name.
func (r *Registry) Register(p Provider) {
	r.register(p.Name(), p)
}

func (r *Registry) register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[name]; !ok {
		r.order = append(r.order, name)
	}
	r.providers[name] = p
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	r.mu.RLock()
	p, ok := r.providers[name]
	r.mu.RUnlock()
	if ok {
		return p, nil
	}

	if err := r.cfg.Validate(name); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("LLM provider %q is not registered", name)
}

// Names returns the registered provider names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// ListModels enumerates the models of every registered provider. A
// provider that cannot list, or fails to, contributes its default model
// instead. Speech models are omitted.
func (r *Registry) ListModels(ctx context.Context) []ModelInfo {
	var out []ModelInfo
	for _, name := range r.Names() {
		p, err := r.Get(name)
		if err != nil {
			continue
		}

		models, err := listModels(ctx, p)
		if err != nil || len(models) == 0 {
			if id := p.ModelID(); id != "" {
				out = append(out, ModelInfo{ID: id, Provider: name})
			}
			continue
		}
		for _, m := range models {
			if isSpeechModel(m.ID) {
				continue
			}
			out = append(out, m)
		}
	}
	return out
}

func isSpeechModel(id string) bool {
	id = strings.ToLower(id)
	return strings.Contains(id, "whisper") || strings.Contains(id, "tts")
}
