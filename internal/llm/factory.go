package llm

import (
	"strings"
	"sync"

	"mantra/backend/internal/llm/providers"
)

// providerAliases maps accepted GENERATOR_PROVIDER values to a backend.
// Gemini is served through its OpenAI-compatible endpoint.
var providerAliases = map[string]string{
	"huggingface": "huggingface",
	"hf":          "huggingface",
	"claude":      "claude",
	"anthropic":   "claude",
	"openai":      "openai",
	"cohere":      "cohere",
	"google":      "openai",
	"gemini":      "openai",
}

// Factory builds providers and reuses one instance per distinct config.
type Factory struct {
	mu    sync.Mutex
	cache map[ProviderConfig]Provider
}

func NewFactory() *Factory {
	return &Factory{cache: map[ProviderConfig]Provider{}}
}

// CreateProvider returns nil for unknown provider names.
func (f *Factory) CreateProvider(config *ProviderConfig) Provider {
	backend, ok := providerAliases[strings.ToLower(strings.TrimSpace(config.ProviderName))]
	if !ok {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if provider, ok := f.cache[*config]; ok {
		return provider
	}

	var provider Provider
	switch backend {
	case "huggingface":
		provider = providers.NewHuggingFaceProvider(config)
	case "claude":
		provider = providers.NewClaudeProvider(config)
	case "openai":
		provider = providers.NewOpenAIProvider(config)
	case "cohere":
		provider = providers.NewCohereProvider(config)
	}
	f.cache[*config] = provider
	return provider
}
