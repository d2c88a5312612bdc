package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	llmerrors "github.com/calder-ai/llmgate/internal/llm/errors"
	"github.com/calder-ai/llmgate/internal/llm/transport"
)

// anthropicVersion is the API version header required by Anthropic.
const anthropicVersion = "2023-06-01"

// AnthropicAdapter implements transport.ProviderAdapter for Anthropic Claude
// models. It handles Anthropic's messages API format with base64 image
// source blocks, request/response transformation, and Anthropic-specific
// headers.
type AnthropicAdapter struct {
	config AdapterConfig
}

// NewAnthropicAdapter creates an Anthropic provider adapter with default
// endpoint. If no endpoint is configured, it defaults to Anthropic's
// production API.
func NewAnthropicAdapter(cfg AdapterConfig) *AnthropicAdapter {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.anthropic.com/v1"
	}
	return &AnthropicAdapter{config: cfg}
}

// Name returns the provider name.
func (a *AnthropicAdapter) Name() string {
	return ProviderAnthropic
}

// Build constructs an Anthropic API request from a normalized completion
// request. Inline image data URLs are translated to Anthropic's base64
// source blocks; the invocation parameter map is merged into the body
// alongside model and messages.
func (a *AnthropicAdapter) Build(ctx context.Context, req *transport.CompletionRequest) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s/messages", a.config.Endpoint)

	messages := make([]map[string]any, 0, len(req.Messages))
	for _, msg := range req.Messages {
		content := make([]map[string]any, 0, len(msg.Content))
		for _, part := range msg.Content {
			switch part.Type {
			case transport.ContentTypeText:
				content = append(content, map[string]any{
					"type": "text",
					"text": part.Text,
				})
			case transport.ContentTypeImageURL:
				mediaType, data, err := splitDataURL(part.ImageURL.URL)
				if err != nil {
					return nil, err
				}
				content = append(content, map[string]any{
					"type": "image",
					"source": map[string]any{
						"type":       "base64",
						"media_type": mediaType,
						"data":       data,
					},
				})
			default:
				return nil, fmt.Errorf("unsupported content part type: %s", part.Type)
			}
		}
		messages = append(messages, map[string]any{
			"role":    msg.Role,
			"content": content,
		})
	}

	body := map[string]any{
		"model":    req.Model,
		"messages": messages,
	}
	for k, v := range req.Parameters {
		body[k] = v
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.config.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}

// Parse extracts normalized data from an Anthropic API response.
// It handles Anthropic's content block format, extracts usage metrics, and
// maps stop reasons to normalized values.
func (a *AnthropicAdapter) Parse(httpResp *http.Response) (*transport.CompletionResponse, error) {
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, parseAnthropicError(httpResp.StatusCode, body)
	}

	var resp struct {
		ID      string `json:"id"`
		Model   string `json:"model"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		StopReason string `json:"stop_reason"`
		Usage      struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}

	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	var content string
	if len(resp.Content) > 0 {
		content = resp.Content[0].Text
	}

	return &transport.CompletionResponse{
		ID:           resp.ID,
		Model:        resp.Model,
		Content:      content,
		FinishReason: mapAnthropicStopReason(resp.StopReason),
		Usage: transport.CompletionUsage{
			PromptTokens:     int64(resp.Usage.InputTokens),
			CompletionTokens: int64(resp.Usage.OutputTokens),
			TotalTokens:      int64(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		},
		Headers: httpResp.Header,
		RawBody: body,
	}, nil
}

// splitDataURL splits a base64 data URL into media type and payload.
func splitDataURL(url string) (mediaType, data string, err error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return "", "", fmt.Errorf("image URL is not a data URL: %q", truncate(url, 64))
	}
	mediaType, data, ok = strings.Cut(rest, ";base64,")
	if !ok || mediaType == "" {
		return "", "", fmt.Errorf("malformed base64 data URL: %q", truncate(url, 64))
	}
	return mediaType, data, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// mapAnthropicStopReason converts Anthropic stop_reason to the normalized
// finish reason.
func mapAnthropicStopReason(reason string) string {
	switch reason {
	case "end_turn", "stop_sequence":
		return "stop"
	case "max_tokens":
		return "length"
	case "content_filter":
		return "content_filter"
	default:
		return "stop"
	}
}

// parseAnthropicError converts Anthropic error responses to ProviderError.
// Extracts error details from Anthropic's JSON error format.
func parseAnthropicError(statusCode int, body []byte) error {
	var errResp struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return &llmerrors.ProviderError{
			Provider:   ProviderAnthropic,
			StatusCode: statusCode,
			Message:    errResp.Error.Message,
			Code:       errResp.Error.Type,
			Type:       classifyErrorType(statusCode, errResp.Error.Type),
		}
	}

	return &llmerrors.ProviderError{
		Provider:   ProviderAnthropic,
		StatusCode: statusCode,
		Message:    string(body),
		Type:       classifyErrorType(statusCode, ""),
	}
}
