package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4096, s.LLMConfigMaxTokens)
	assert.Equal(t, 0.0, s.LLMConfigTemperature)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "localhost:6379", s.Redis.Addr)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LLM_CONFIG_MAX_TOKENS", "500")
	t.Setenv("LLM_CONFIG_TEMPERATURE", "0.1")
	t.Setenv("LOG_LEVEL", "debug")

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 500, s.LLMConfigMaxTokens)
	assert.Equal(t, 0.1, s.LLMConfigTemperature)
	assert.Equal(t, "debug", s.LogLevel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{
			name:   "defaults_valid",
			mutate: func(*Settings) {},
		},
		{
			name:    "zero_max_tokens",
			mutate:  func(s *Settings) { s.LLMConfigMaxTokens = 0 },
			wantErr: "LLM_CONFIG_MAX_TOKENS",
		},
		{
			name:    "negative_temperature",
			mutate:  func(s *Settings) { s.LLMConfigTemperature = -0.5 },
			wantErr: "LLM_CONFIG_TEMPERATURE",
		},
		{
			name:    "temperature_above_range",
			mutate:  func(s *Settings) { s.LLMConfigTemperature = 2.5 },
			wantErr: "LLM_CONFIG_TEMPERATURE",
		},
		{
			name:    "bad_log_level",
			mutate:  func(s *Settings) { s.LogLevel = "trace" },
			wantErr: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Settings{
				LogLevel:             "info",
				LLMConfigMaxTokens:   4096,
				LLMConfigTemperature: 0,
			}
			tt.mutate(s)

			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
