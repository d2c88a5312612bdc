// Package config loads process-wide settings from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Settings holds all configuration for the LLM invocation layer. Values are
// read once at load time and treated as immutable for the lifetime of the
// process; per-invocation parameter defaults are derived from them on demand.
type Settings struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// LLM invocation defaults
	LLMConfigMaxTokens   int     `env:"LLM_CONFIG_MAX_TOKENS" envDefault:"4096"`
	LLMConfigTemperature float64 `env:"LLM_CONFIG_TEMPERATURE" envDefault:"0"`

	// HTTP transport
	HTTPTimeout time.Duration `env:"LLM_HTTP_TIMEOUT" envDefault:"0"`

	// Provider credentials
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`

	// Artifact storage (Redis)
	Redis RedisSettings

	// Step cost persistence (MySQL)
	MySQLDSN string `env:"MYSQL_DSN"`
}

// RedisSettings holds Redis connection configuration for artifact storage.
type RedisSettings struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
}

// Load reads settings from environment variables.
func Load() (*Settings, error) {
	s := &Settings{}
	if err := env.Parse(s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return s, nil
}

// Validate checks if the settings are valid.
func (s *Settings) Validate() error {
	if s.LLMConfigMaxTokens < 1 {
		return fmt.Errorf("LLM_CONFIG_MAX_TOKENS must be at least 1, got %d", s.LLMConfigMaxTokens)
	}
	if s.LLMConfigTemperature < 0 || s.LLMConfigTemperature > 2 {
		return fmt.Errorf("LLM_CONFIG_TEMPERATURE must be in [0, 2], got %g", s.LLMConfigTemperature)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[s.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", s.LogLevel)
	}

	return nil
}
