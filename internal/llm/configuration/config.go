// Package configuration holds provider configurations for the LLM layer and
// the registry they are resolved from.
package configuration

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
)

// validate is the package-level validator instance used for struct validation.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Registry errors.
var (
	// ErrConfigNotFound indicates an unknown provider configuration key.
	ErrConfigNotFound = errors.New("llm configuration not found")

	// ErrConfigExists indicates a configuration key is already registered.
	ErrConfigExists = errors.New("llm configuration already registered")
)

// ProviderConfig identifies a model and its invocation characteristics,
// looked up by a string key from the registry. A key maps to exactly one
// configuration for the lifetime of the process.
type ProviderConfig struct {
	// Key is the registry lookup key, e.g. "OPENAI_GPT4_TURBO".
	Key string `json:"key" validate:"required"`

	// Provider is the canonical provider identifier ("openai", "anthropic").
	Provider string `json:"provider" validate:"required,oneof=openai anthropic"`

	// ModelName is the exact model identifier sent on the wire.
	ModelName string `json:"model_name" validate:"required"`

	// SupportsVision reports whether the model accepts image input.
	// When false, screenshots supplied to a handler are discarded before
	// message construction.
	SupportsVision bool `json:"supports_vision"`

	// Endpoint overrides the provider's production API base URL.
	Endpoint string `json:"endpoint,omitempty"`

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `json:"api_key_env,omitempty"`

	// Headers are extra headers set on every request to the provider.
	Headers map[string]string `json:"headers,omitempty"`
}

// Validate checks that the configuration meets all requirements.
func (c ProviderConfig) Validate() error { return validate.Struct(c) }

// APIKey resolves the provider credential from the configured environment
// variable. Returns empty string when unset.
func (c ProviderConfig) APIKey() string {
	if c.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.APIKeyEnv)
}

// Registry maps provider configuration keys to configurations. It is
// populated at startup and read-mostly afterwards; a key maps to exactly one
// configuration and registration never overwrites.
type Registry struct {
	mu      sync.RWMutex
	configs map[string]ProviderConfig
}

// NewRegistry creates an empty provider configuration registry.
func NewRegistry() *Registry {
	return &Registry{configs: make(map[string]ProviderConfig)}
}

// Register adds a configuration under its key. Fails with ErrConfigExists if
// the key is already present, leaving the registry unchanged.
func (r *Registry) Register(cfg ProviderConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid provider config %q: %w", cfg.Key, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.configs[cfg.Key]; exists {
		return fmt.Errorf("%w: %s", ErrConfigExists, cfg.Key)
	}
	r.configs[cfg.Key] = cfg
	return nil
}

// Get resolves the configuration for a key. Fails with ErrConfigNotFound for
// unknown keys.
func (r *Registry) Get(key string) (ProviderConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.configs[key]
	if !ok {
		return ProviderConfig{}, fmt.Errorf("%w: %s", ErrConfigNotFound, key)
	}
	return cfg, nil
}

// Keys returns the registered configuration keys in unspecified order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.configs))
	for k := range r.configs {
		keys = append(keys, k)
	}
	return keys
}
