// Package transport provides the normalized request/response types and the
// HTTP pipeline used to reach LLM providers. Provider-specific wire formats
// are handled by adapters; everything above this package works with the
// normalized forms.
package transport

import (
	"net/http"
)

// Message roles and content part types, following the chat-completions
// message shape that all supported providers are translated from.
const (
	RoleUser = "user"

	ContentTypeText     = "text"
	ContentTypeImageURL = "image_url"
)

// Message is a single normalized chat message.
type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart is one block of message content: text or an inline image.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries inline image data as a base64 data URL.
type ImageURL struct {
	URL string `json:"url"`
}

// TextMessage builds a user message containing only the given text.
func TextMessage(text string) Message {
	return Message{
		Role:    RoleUser,
		Content: []ContentPart{{Type: ContentTypeText, Text: text}},
	}
}

// CompletionRequest represents a normalized completion request across all
// LLM providers. Parameters is an opaque option map (max_tokens,
// temperature, ...) merged into the provider request body alongside model
// and messages.
type CompletionRequest struct {
	// Provider identifies which LLM service to use ("openai"|"anthropic").
	Provider string `json:"provider"`

	// Model specifies the exact model version to use.
	Model string `json:"model"`

	// Messages is the normalized conversation to complete.
	Messages []Message `json:"messages"`

	// Parameters holds named invocation options merged into the wire
	// request body.
	Parameters map[string]any `json:"parameters,omitempty"`
}

// CompletionUsage provides consistent usage metrics across all providers.
type CompletionUsage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
	LatencyMs        int64 `json:"latency_ms"`
}

// CompletionResponse represents normalized output from any LLM provider.
// RawBody preserves the provider's original response for audit artifacts.
type CompletionResponse struct {
	// ID is the provider-assigned response identifier.
	ID string `json:"id"`

	// Model is the model that served the request.
	Model string `json:"model"`

	// Content is the generated text.
	Content string `json:"content"`

	// FinishReason indicates why generation stopped
	// ("stop"|"length"|"content_filter").
	FinishReason string `json:"finish_reason"`

	// Usage tracks resource consumption.
	Usage CompletionUsage `json:"usage"`

	// Headers preserves raw response headers for debugging.
	Headers http.Header `json:"-"`

	// RawBody preserves the original response body for audit.
	RawBody []byte `json:"-"`
}
