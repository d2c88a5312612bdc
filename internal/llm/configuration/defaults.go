package configuration

// Environment variable names for provider credentials.
const (
	OpenAIAPIKeyEnv    = "OPENAI_API_KEY"
	AnthropicAPIKeyEnv = "ANTHROPIC_API_KEY"
)

// defaultConfigs are the built-in provider configurations available without
// any custom registration.
var defaultConfigs = []ProviderConfig{
	{
		Key:       "OPENAI_GPT4_TURBO",
		Provider:  "openai",
		ModelName: "gpt-4-turbo-preview",
		APIKeyEnv: OpenAIAPIKeyEnv,
	},
	{
		Key:            "OPENAI_GPT4V",
		Provider:       "openai",
		ModelName:      "gpt-4-vision-preview",
		SupportsVision: true,
		APIKeyEnv:      OpenAIAPIKeyEnv,
	},
	{
		Key:            "OPENAI_GPT4O",
		Provider:       "openai",
		ModelName:      "gpt-4o",
		SupportsVision: true,
		APIKeyEnv:      OpenAIAPIKeyEnv,
	},
	{
		Key:            "ANTHROPIC_CLAUDE3_OPUS",
		Provider:       "anthropic",
		ModelName:      "claude-3-opus-20240229",
		SupportsVision: true,
		APIKeyEnv:      AnthropicAPIKeyEnv,
	},
	{
		Key:            "ANTHROPIC_CLAUDE3_SONNET",
		Provider:       "anthropic",
		ModelName:      "claude-3-sonnet-20240229",
		SupportsVision: true,
		APIKeyEnv:      AnthropicAPIKeyEnv,
	},
	{
		Key:            "ANTHROPIC_CLAUDE3_HAIKU",
		Provider:       "anthropic",
		ModelName:      "claude-3-haiku-20240307",
		SupportsVision: true,
		APIKeyEnv:      AnthropicAPIKeyEnv,
	},
}

// DefaultRegistry returns a registry pre-populated with the built-in
// provider configurations.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, cfg := range defaultConfigs {
		// Built-in configs are statically valid; Register only fails on
		// duplicates, which cannot happen here.
		_ = r.Register(cfg)
	}
	return r
}
