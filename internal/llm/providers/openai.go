package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	llmerrors "github.com/calder-ai/llmgate/internal/llm/errors"
	"github.com/calder-ai/llmgate/internal/llm/transport"
)

// OpenAIAdapter implements transport.ProviderAdapter for OpenAI GPT models.
// It handles OpenAI's chat/completions API format including multi-part
// vision content, request/response transformation, and OpenAI-specific
// error handling.
type OpenAIAdapter struct {
	config AdapterConfig
}

// NewOpenAIAdapter creates an OpenAI provider adapter with default endpoint.
// If no endpoint is configured, it defaults to OpenAI's production API.
func NewOpenAIAdapter(cfg AdapterConfig) *OpenAIAdapter {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.openai.com/v1"
	}
	return &OpenAIAdapter{config: cfg}
}

// Name returns the provider name.
func (a *OpenAIAdapter) Name() string {
	return ProviderOpenAI
}

// Build constructs an OpenAI API request from a normalized completion
// request. The body carries model and messages merged with the invocation
// parameter map.
func (a *OpenAIAdapter) Build(ctx context.Context, req *transport.CompletionRequest) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s/chat/completions", a.config.Endpoint)

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
				content = append(content, map[string]any{
					"type":      "image_url",
					"image_url": map[string]any{"url": part.ImageURL.URL},
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
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", a.config.APIKey))

	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}

// Parse extracts normalized data from an OpenAI API response.
// It handles OpenAI's JSON format, extracts usage metrics, and maps finish
// reasons to normalized values.
func (a *OpenAIAdapter) Parse(httpResp *http.Response) (*transport.CompletionResponse, error) {
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, parseOpenAIError(httpResp.StatusCode, body)
	}

	var resp struct {
		ID      string `json:"id"`
		Model   string `json:"model"`
		Choices []struct {
			Index   int `json:"index"`
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
	}

	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", llmerrors.ErrInvalidResponse)
	}

	return &transport.CompletionResponse{
		ID:           resp.ID,
		Model:        resp.Model,
		Content:      resp.Choices[0].Message.Content,
		FinishReason: resp.Choices[0].FinishReason,
		Usage: transport.CompletionUsage{
			PromptTokens:     int64(resp.Usage.PromptTokens),
			CompletionTokens: int64(resp.Usage.CompletionTokens),
			TotalTokens:      int64(resp.Usage.TotalTokens),
		},
		Headers: httpResp.Header,
		RawBody: body,
	}, nil
}

// parseOpenAIError converts OpenAI error responses to ProviderError.
// Extracts error details from OpenAI's JSON error format.
func parseOpenAIError(statusCode int, body []byte) error {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return &llmerrors.ProviderError{
			Provider:   ProviderOpenAI,
			StatusCode: statusCode,
			Message:    errResp.Error.Message,
			Code:       errResp.Error.Code,
			Type:       classifyErrorType(statusCode, errResp.Error.Type),
		}
	}

	return &llmerrors.ProviderError{
		Provider:   ProviderOpenAI,
		StatusCode: statusCode,
		Message:    string(body),
		Type:       classifyErrorType(statusCode, ""),
	}
}
