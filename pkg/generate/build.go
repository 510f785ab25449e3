package generate

import (
	"github.com/jmylchreest/collegescout/internal/logger"
	"github.com/jmylchreest/collegescout/pkg/llm"
)

// ChainConfig selects the providers placed in front of the static fallback.
type ChainConfig struct {
	// Provider pins a single provider. Empty means auto-detect along Order.
	Provider string

	// Model overrides the model of Provider, or of openrouter when
	// auto-detecting.
	Model string

	// Order is the auto-detect priority. Defaults to llm.FallbackOrder.
	Order []string

	// Base carries retries, timeouts and attribution for every provider.
	Base llm.ProviderConfig

	// OllamaURL overrides the local Ollama endpoint.
	OllamaURL string

	Options []Option
}

// BuildChain creates the generator chain. Providers that need an API key are
// added only when one is set in the environment; ollama is always added. The
// static generator is always last, so the chain never fails for lack of a
// provider.
func BuildChain(cfg ChainConfig) *Chain {
	order := cfg.Order
	if cfg.Provider != "" {
		order = []string{cfg.Provider}
	} else if len(order) == 0 {
		order = llm.FallbackOrder
	}

	var gens []Generator
	for _, name := range order {
		pc := cfg.Base
		pc.Model = llm.ModelFromEnv(name)
		if cfg.Model != "" && (name == cfg.Provider || (cfg.Provider == "" && name == "openrouter")) {
			pc.Model = cfg.Model
		}

		if llm.NeedsAPIKey(name) {
			pc.APIKey = llm.APIKey(name)
			if pc.APIKey == "" {
				logger.Debug("skipping provider without API key", "provider", name)
				continue
			}
		}
		if name == "ollama" {
			pc.BaseURL = cfg.OllamaURL
		}

		p, err := llm.NewProvider(name, pc)
		if err != nil {
			logger.Warn("provider unavailable", "provider", name, "error", err)
			continue
		}
		gens = append(gens, NewLLM(p, cfg.Options...))
	}

	if len(gens) == 0 {
		logger.Warn("no content generator configured, using fallback content")
	}
	return NewChain(append(gens, Static{})...)
}
