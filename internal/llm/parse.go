package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	llmerrors "github.com/calder-ai/llmgate/internal/llm/errors"
	"github.com/calder-ai/llmgate/internal/llm/transport"
)

// Parsed is the structured result extracted from a provider completion
// response.
type Parsed = map[string]any

// ResponseParser extracts a structured result from a raw completion
// response. Implementations must be synchronous and pure.
type ResponseParser interface {
	Parse(resp *transport.CompletionResponse) (Parsed, error)
}

// JSONResponseParser is the default ResponseParser. Models are prompted to
// answer with a JSON object; this parser strips an optional markdown code
// fence around the content and unmarshals the object.
type JSONResponseParser struct{}

// NewJSONResponseParser creates the default response parser.
func NewJSONResponseParser() *JSONResponseParser {
	return &JSONResponseParser{}
}

// Parse implements ResponseParser.
func (p *JSONResponseParser) Parse(resp *transport.CompletionResponse) (Parsed, error) {
	if resp == nil || resp.Content == "" {
		return nil, llmerrors.ErrEmptyResponse
	}

	content := stripCodeFence(resp.Content)

	var parsed Parsed
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", llmerrors.ErrInvalidResponse, err)
	}
	return parsed, nil
}

// stripCodeFence removes a surrounding markdown code fence, with or without
// a language tag, from model output.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	// Drop a language tag such as "json" on the opening fence line.
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(trimmed[:idx])
		if firstLine == "" || !strings.ContainsAny(firstLine, "{[") {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
