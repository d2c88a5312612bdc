package configuration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  ProviderConfig
		wantErr bool
	}{
		{
			name: "complete_config",
			config: ProviderConfig{
				Key:            "OPENAI_GPT4V",
				Provider:       "openai",
				ModelName:      "gpt-4-vision-preview",
				SupportsVision: true,
				APIKeyEnv:      "OPENAI_API_KEY",
				Headers:        map[string]string{"User-Agent": "test-client"},
			},
		},
		{
			name: "minimal_config",
			config: ProviderConfig{
				Key:       "ANTHROPIC_CLAUDE3_HAIKU",
				Provider:  "anthropic",
				ModelName: "claude-3-haiku-20240307",
			},
		},
		{
			name: "missing_key",
			config: ProviderConfig{
				Provider:  "openai",
				ModelName: "gpt-4o",
			},
			wantErr: true,
		},
		{
			name: "unknown_provider",
			config: ProviderConfig{
				Key:       "GOOGLE_GEMINI",
				Provider:  "google",
				ModelName: "gemini-1.5-flash",
			},
			wantErr: true,
		},
		{
			name: "missing_model_name",
			config: ProviderConfig{
				Key:      "OPENAI_GPT4O",
				Provider: "openai",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	cfg := ProviderConfig{
		Key:       "OPENAI_GPT4_TURBO",
		Provider:  "openai",
		ModelName: "gpt-4-turbo-preview",
	}
	require.NoError(t, r.Register(cfg))

	got, err := r.Get("OPENAI_GPT4_TURBO")
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	_, err = r.Get("NOT_A_KEY")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigNotFound)
	assert.Contains(t, err.Error(), "NOT_A_KEY")
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	first := ProviderConfig{
		Key:       "OPENAI_GPT4O",
		Provider:  "openai",
		ModelName: "gpt-4o",
	}
	require.NoError(t, r.Register(first))

	second := first
	second.ModelName = "gpt-4o-mini"
	err := r.Register(second)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigExists)

	// First registration is untouched.
	got, err := r.Get("OPENAI_GPT4O")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", got.ModelName)
}

func TestRegistryRejectsInvalidConfig(t *testing.T) {
	r := NewRegistry()
	err := r.Register(ProviderConfig{Key: "BROKEN"})
	require.Error(t, err)
	assert.Empty(t, r.Keys())
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	vision, err := r.Get("OPENAI_GPT4V")
	require.NoError(t, err)
	assert.True(t, vision.SupportsVision)

	text, err := r.Get("OPENAI_GPT4_TURBO")
	require.NoError(t, err)
	assert.False(t, text.SupportsVision)

	claude, err := r.Get("ANTHROPIC_CLAUDE3_SONNET")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", claude.Provider)
	assert.Equal(t, AnthropicAPIKeyEnv, claude.APIKeyEnv)

	assert.Len(t, r.Keys(), 6)
}

func TestAPIKeyFromEnvironment(t *testing.T) {
	cfg := ProviderConfig{
		Key:       "OPENAI_GPT4O",
		Provider:  "openai",
		ModelName: "gpt-4o",
		APIKeyEnv: "LLMGATE_TEST_API_KEY",
	}

	assert.Empty(t, cfg.APIKey())

	t.Setenv("LLMGATE_TEST_API_KEY", "sk-test-key")
	assert.Equal(t, "sk-test-key", cfg.APIKey())

	cfg.APIKeyEnv = ""
	assert.Empty(t, cfg.APIKey())
}
