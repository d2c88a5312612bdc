// Package llm produces the handlers that perform one end-to-end "ask the
// model and get a structured answer" operation: build messages, persist
// observability artifacts, invoke the remote completion API, account cost,
// and parse the response.
//
// Architecture:
//   - Provider-agnostic transport with an adapter per provider
//   - Explicit collaborator interfaces (artifact store, step store, message
//     builder, response parser) instead of hidden globals
//   - One logical task per invocation with strict sequential side effects
//   - Deliberately no retry, fallback, caching, or timeout enforcement: a
//     call blocks until the provider responds or the caller's context is done
package llm

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"

	"github.com/calder-ai/llmgate/internal/artifacts"
	"github.com/calder-ai/llmgate/internal/config"
	"github.com/calder-ai/llmgate/internal/llm/configuration"
	"github.com/calder-ai/llmgate/internal/llm/providers"
	"github.com/calder-ai/llmgate/internal/llm/transport"
	"github.com/calder-ai/llmgate/internal/storage"
)

// ErrDuplicateProvider indicates a custom handler registration conflict.
var ErrDuplicateProvider = errors.New("custom llm provider already registered")

// FactoryConfig wires the factory's collaborators. Nil collaborators fall
// back to in-process defaults suitable for development and testing; the
// composition root supplies production implementations.
type FactoryConfig struct {
	// Settings provides process-wide invocation defaults. Required.
	Settings *config.Settings

	// Registry resolves provider configuration keys. Defaults to the
	// built-in registry.
	Registry *configuration.Registry

	// ArtifactStore persists invocation artifacts. Defaults to in-memory.
	ArtifactStore artifacts.Store

	// StepStore records incremental cost per step. Defaults to in-memory.
	StepStore storage.StepStore

	// MessageBuilder assembles completion messages. Defaults to
	// ChatMessageBuilder.
	MessageBuilder MessageBuilder

	// Parser extracts the structured result. Defaults to JSONResponseParser.
	Parser ResponseParser

	// Completer performs the remote call. Defaults to the HTTP transport
	// with logging middleware.
	Completer transport.Completer

	// HTTPClient overrides the default transport's HTTP client.
	HTTPClient *http.Client

	// Logger receives structured invocation logs. Defaults to slog.Default.
	Logger *slog.Logger

	// Metrics receives transport counters and histograms. Defaults to no-op.
	Metrics transport.Metrics

	// RedactPrompts suppresses prompt and response content in logs.
	RedactPrompts bool
}

// Factory resolves provider configuration keys into API handlers. It owns
// the custom handler registry: populated at startup, read at lookup time,
// one handler per key with no overwrite.
type Factory struct {
	settings       *config.Settings
	registry       *configuration.Registry
	artifactStore  artifacts.Store
	stepStore      storage.StepStore
	messageBuilder MessageBuilder
	parser         ResponseParser
	completer      transport.Completer
	logger         *slog.Logger

	mu     sync.RWMutex
	custom map[string]APIHandler
}

// NewFactory creates a handler factory from the given wiring.
func NewFactory(cfg FactoryConfig) (*Factory, error) {
	if cfg.Settings == nil {
		return nil, fmt.Errorf("settings are required")
	}

	if cfg.Registry == nil {
		cfg.Registry = configuration.DefaultRegistry()
	}
	if cfg.ArtifactStore == nil {
		cfg.ArtifactStore = artifacts.NewInMemoryStore()
	}
	if cfg.StepStore == nil {
		cfg.StepStore = storage.NewMemoryStepStore()
	}
	if cfg.MessageBuilder == nil {
		cfg.MessageBuilder = NewChatMessageBuilder()
	}
	if cfg.Parser == nil {
		cfg.Parser = NewJSONResponseParser()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.Completer == nil {
		completer, err := defaultCompleter(cfg)
		if err != nil {
			return nil, err
		}
		cfg.Completer = completer
	}

	return &Factory{
		settings:       cfg.Settings,
		registry:       cfg.Registry,
		artifactStore:  cfg.ArtifactStore,
		stepStore:      cfg.StepStore,
		messageBuilder: cfg.MessageBuilder,
		parser:         cfg.Parser,
		completer:      cfg.Completer,
		logger:         cfg.Logger,
		custom:         make(map[string]APIHandler),
	}, nil
}

// defaultCompleter builds the HTTP transport with logging middleware: one
// adapter per provider, transport overrides and credentials collapsed from
// the registry with settings as the credential fallback, no timeout unless
// LLM_HTTP_TIMEOUT is set.
func defaultCompleter(cfg FactoryConfig) (transport.Completer, error) {
	router, err := providers.NewRouter(map[string]providers.AdapterConfig{
		providers.ProviderOpenAI:    adapterConfigFor(cfg.Registry, providers.ProviderOpenAI, cfg.Settings.OpenAIAPIKey),
		providers.ProviderAnthropic: adapterConfigFor(cfg.Registry, providers.ProviderAnthropic, cfg.Settings.AnthropicAPIKey),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build provider router: %w", err)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Settings.HTTPTimeout}
	}

	return transport.Chain(
		transport.NewHTTPCompleter(client, router),
		transport.NewLoggingMiddleware(cfg.Logger, cfg.Metrics, cfg.RedactPrompts),
	), nil
}

// adapterConfigFor collapses a provider's registry entries into its
// provider-level transport configuration. Entries are scanned in key order;
// the first one carrying an endpoint override, extra headers, or a
// resolvable credential supplies it. settingsKey is used when no entry
// resolves a credential.
func adapterConfigFor(registry *configuration.Registry, provider, settingsKey string) providers.AdapterConfig {
	keys := registry.Keys()
	slices.Sort(keys)

	var ac providers.AdapterConfig
	for _, key := range keys {
		pc, err := registry.Get(key)
		if err != nil || pc.Provider != provider {
			continue
		}
		if ac.Endpoint == "" {
			ac.Endpoint = pc.Endpoint
		}
		if ac.Headers == nil && len(pc.Headers) > 0 {
			ac.Headers = pc.Headers
		}
		if ac.APIKey == "" {
			ac.APIKey = pc.APIKey()
		}
	}
	if ac.APIKey == "" {
		ac.APIKey = settingsKey
	}
	return ac
}

// GetHandler resolves the handler for a provider configuration key. Custom
// handlers registered under the key take precedence; otherwise the key is
// resolved through the configuration registry. Unknown keys fail wrapping
// configuration.ErrConfigNotFound.
func (f *Factory) GetHandler(key string) (APIHandler, error) {
	f.mu.RLock()
	handler, ok := f.custom[key]
	f.mu.RUnlock()
	if ok {
		return handler, nil
	}

	providerConfig, err := f.registry.Get(key)
	if err != nil {
		return nil, err
	}

	return &apiHandler{
		key:     key,
		config:  providerConfig,
		factory: f,
	}, nil
}

// RegisterCustomHandler stores a handler for a provider key. Fails wrapping
// ErrDuplicateProvider if the key is already registered, leaving the
// registry unchanged. There is no unregister operation.
func (f *Factory) RegisterCustomHandler(key string, handler APIHandler) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.custom[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateProvider, key)
	}
	f.custom[key] = handler
	return nil
}

// APIParameters returns the process-wide default invocation parameters,
// read from settings at call time.
func (f *Factory) APIParameters() map[string]any {
	return map[string]any{
		"max_tokens":  f.settings.LLMConfigMaxTokens,
		"temperature": f.settings.LLMConfigTemperature,
	}
}
