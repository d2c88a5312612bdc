package transport

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingMetrics captures counter and histogram calls for assertions.
type recordingMetrics struct {
	mu         sync.Mutex
	counters   map[string]float64
	histograms map[string][]float64
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		counters:   make(map[string]float64),
		histograms: make(map[string][]float64),
	}
}

func (m *recordingMetrics) IncrementCounter(name string, _ map[string]string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] += value
}

func (m *recordingMetrics) RecordHistogram(name string, _ map[string]string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histograms[name] = append(m.histograms[name], value)
}

func loggingRequest() *CompletionRequest {
	return &CompletionRequest{
		Provider: "openai",
		Model:    "gpt-4o",
		Messages: []Message{TextMessage("Find the login button")},
		Parameters: map[string]any{
			"max_tokens": 500,
		},
	}
}

func TestLoggingMiddlewareSuccess(t *testing.T) {
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))
	metrics := newRecordingMetrics()

	next := CompleterFunc(func(context.Context, *CompletionRequest) (*CompletionResponse, error) {
		return &CompletionResponse{
			Content:      `{"action": "click"}`,
			FinishReason: "stop",
			Usage:        CompletionUsage{PromptTokens: 100, CompletionTokens: 20, TotalTokens: 120},
		}, nil
	})

	completer := NewLoggingMiddleware(logger, metrics, false)(next)
	resp, err := completer.Complete(context.Background(), loggingRequest())
	require.NoError(t, err)
	require.NotNil(t, resp)

	out := logs.String()
	assert.Contains(t, out, "LLM request started")
	assert.Contains(t, out, "LLM request completed")
	assert.Contains(t, out, "provider=openai")
	assert.Contains(t, out, "model=gpt-4o")
	assert.Contains(t, out, "param_max_tokens=500")
	assert.Contains(t, out, "Find the login button")
	assert.Contains(t, out, "response_preview=")

	assert.Equal(t, float64(1), metrics.counters["llm.requests.total"])
	assert.Equal(t, float64(1), metrics.counters["llm.requests.success"])
	assert.Zero(t, metrics.counters["llm.requests.errors"])
	assert.Equal(t, []float64{100}, metrics.histograms["llm.tokens.prompt"])
	assert.Equal(t, []float64{20}, metrics.histograms["llm.tokens.completion"])
	assert.Len(t, metrics.histograms["llm.request.duration_ms"], 1)
}

func TestLoggingMiddlewareError(t *testing.T) {
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))
	metrics := newRecordingMetrics()

	cause := errors.New("provider exploded")
	next := CompleterFunc(func(context.Context, *CompletionRequest) (*CompletionResponse, error) {
		return nil, cause
	})

	completer := NewLoggingMiddleware(logger, metrics, false)(next)
	_, err := completer.Complete(context.Background(), loggingRequest())
	require.ErrorIs(t, err, cause)

	out := logs.String()
	assert.Contains(t, out, "LLM request failed")
	assert.Contains(t, out, "provider exploded")

	assert.Equal(t, float64(1), metrics.counters["llm.requests.total"])
	assert.Equal(t, float64(1), metrics.counters["llm.requests.errors"])
	assert.Zero(t, metrics.counters["llm.requests.success"])
}

func TestLoggingMiddlewareRedaction(t *testing.T) {
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))

	next := CompleterFunc(func(context.Context, *CompletionRequest) (*CompletionResponse, error) {
		return &CompletionResponse{Content: `{"secret": "value"}`}, nil
	})

	completer := NewLoggingMiddleware(logger, nil, true)(next)
	_, err := completer.Complete(context.Background(), loggingRequest())
	require.NoError(t, err)

	out := logs.String()
	assert.NotContains(t, out, "Find the login button")
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "prompt_length=21")
	assert.Contains(t, out, "response_length=19")
}

func TestLoggingMiddlewareLongPromptTruncated(t *testing.T) {
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))

	next := CompleterFunc(func(context.Context, *CompletionRequest) (*CompletionResponse, error) {
		return &CompletionResponse{Content: "{}"}, nil
	})

	req := loggingRequest()
	req.Messages = []Message{TextMessage(strings.Repeat("x", 300))}

	completer := NewLoggingMiddleware(logger, nil, false)(next)
	_, err := completer.Complete(context.Background(), req)
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, strings.Repeat("x", 200)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 201))
}

func TestPromptLength(t *testing.T) {
	messages := []Message{
		TextMessage("abc"),
		{Role: RoleUser, Content: []ContentPart{
			{Type: ContentTypeText, Text: "defg"},
			{Type: ContentTypeImageURL, ImageURL: &ImageURL{URL: "data:image/png;base64,xx"}},
		}},
	}
	assert.Equal(t, 7, promptLength(messages))

	assert.Equal(t, "abcdefg", promptText(messages))
}
