// Package providers implements provider-specific HTTP adapters for the
// normalized completion transport.
package providers

import (
	"fmt"

	llmerrors "github.com/calder-ai/llmgate/internal/llm/errors"
	"github.com/calder-ai/llmgate/internal/llm/transport"
)

// Supported LLM provider identifiers.
// These constants must match the provider names used in configuration.
const (
	ProviderOpenAI    = "openai"    // OpenAI GPT models
	ProviderAnthropic = "anthropic" // Anthropic Claude models
)

// AdapterConfig holds provider-level transport configuration and
// authentication. One AdapterConfig serves all models of a provider.
type AdapterConfig struct {
	// Endpoint overrides the provider's production API base URL.
	Endpoint string

	// APIKey is the credential sent on every request. Sensitive.
	APIKey string

	// Headers are extra headers set on every request.
	Headers map[string]string
}

// NewRouter creates a router with adapters for all configured providers.
// Each provider name in configs must be a supported provider identifier.
func NewRouter(configs map[string]AdapterConfig) (transport.Router, error) {
	adapters := make(map[string]transport.ProviderAdapter)

	for name, cfg := range configs {
		var adapter transport.ProviderAdapter
		switch name {
		case ProviderOpenAI:
			adapter = NewOpenAIAdapter(cfg)
		case ProviderAnthropic:
			adapter = NewAnthropicAdapter(cfg)
		default:
			return nil, fmt.Errorf("%w: %s", llmerrors.ErrUnknownProvider, name)
		}
		adapters[name] = adapter
	}

	return &router{adapters: adapters}, nil
}

// router implements transport.Router with a provider adapter registry.
type router struct {
	adapters map[string]transport.ProviderAdapter
}

// Pick selects the adapter for the given provider name.
// Returns an error if the provider is not configured or unknown.
func (r *router) Pick(provider string) (transport.ProviderAdapter, error) {
	adapter, ok := r.adapters[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", llmerrors.ErrUnknownProvider, provider)
	}
	return adapter, nil
}
