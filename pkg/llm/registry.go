package llm

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// ProviderFactory creates providers from config.
type ProviderFactory func(cfg ProviderConfig) (Provider, error)

// DefaultModels maps provider names to their default models.
var DefaultModels = map[string]string{
	"openrouter": "openai/gpt-3.5-turbo",
	"anthropic":  "claude-sonnet-4-20250514",
	"openai":     "gpt-4o-mini",
	"ollama":     "llama3.2",
}

// FallbackOrder is the default provider priority.
var FallbackOrder = []string{"openrouter", "anthropic", "openai", "ollama"}

var registry = map[string]ProviderFactory{}

func init() {
	RegisterProvider("openrouter", func(cfg ProviderConfig) (Provider, error) {
		return NewOpenRouterProvider(cfg)
	})
	RegisterProvider("anthropic", func(cfg ProviderConfig) (Provider, error) {
		return NewAnthropicProvider(cfg)
	})
	RegisterProvider("openai", func(cfg ProviderConfig) (Provider, error) {
		return NewOpenAIProvider(cfg)
	})
	RegisterProvider("ollama", func(cfg ProviderConfig) (Provider, error) {
		return NewOllamaProvider(cfg)
	})
}

// NewProvider creates a provider by name.
func NewProvider(name string, cfg ProviderConfig) (Provider, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s (available: %s)", name, strings.Join(AvailableProviders(), ", "))
	}
	return factory(cfg)
}

// RegisterProvider adds a custom provider factory.
func RegisterProvider(name string, factory ProviderFactory) {
	registry[name] = factory
}

// AvailableProviders returns the registered provider names, sorted.
func AvailableProviders() []string {
	providers := make([]string, 0, len(registry))
	for name := range registry {
		providers = append(providers, name)
	}
	sort.Strings(providers)
	return providers
}

// IsRegistered returns true if a provider is registered.
func IsRegistered(name string) bool {
	_, ok := registry[name]
	return ok
}

// DetectProvider auto-detects the best provider based on available API keys.
// Priority follows FallbackOrder; ollama needs no key and is the last resort.
func DetectProvider() (provider string, apiKey string) {
	for _, name := range FallbackOrder {
		if name == "ollama" {
			continue
		}
		if key := APIKey(name); key != "" {
			return name, key
		}
	}
	return "ollama", ""
}

// GetDefaultModel returns the default model for a provider.
func GetDefaultModel(provider string) string {
	return DefaultModels[provider]
}

// providerEnvKeys maps provider names to their API key environment variables.
var providerEnvKeys = map[string]string{
	"openrouter": "OPENROUTER_API_KEY",
	"anthropic":  "ANTHROPIC_API_KEY",
	"openai":     "OPENAI_API_KEY",
}

// providerModelKeys maps provider names to environment overrides for the model.
var providerModelKeys = map[string]string{
	"openrouter": "OPENROUTER_MODEL",
	"anthropic":  "ANTHROPIC_MODEL",
	"openai":     "OPENAI_MODEL",
	"ollama":     "OLLAMA_MODEL",
}

// APIKey returns the provider's API key from the environment.
func APIKey(provider string) string {
	if envKey, ok := providerEnvKeys[provider]; ok {
		return os.Getenv(envKey)
	}
	return ""
}

// HasAPIKey checks if an API key environment variable is set for the given provider.
func HasAPIKey(provider string) bool {
	return APIKey(provider) != ""
}

// NeedsAPIKey reports whether the provider refuses to start without a key.
func NeedsAPIKey(provider string) bool {
	_, ok := providerEnvKeys[provider]
	return ok
}

// ModelFromEnv returns the environment model override for provider, or the
// provider's default model.
func ModelFromEnv(provider string) string {
	if envKey, ok := providerModelKeys[provider]; ok {
		if m := os.Getenv(envKey); m != "" {
			return m
		}
	}
	return GetDefaultModel(provider)
}
