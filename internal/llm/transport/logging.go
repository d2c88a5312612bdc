package transport

import (
	"context"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Metrics provides observability data collection for LLM operations.
// Supports counters and histograms with tag-based dimensionality to enable
// monitoring and performance analysis across providers.
type Metrics interface {
	IncrementCounter(name string, tags map[string]string, value float64)
	RecordHistogram(name string, tags map[string]string, value float64)
}

// NoOpMetrics provides a no-op metrics implementation for testing and
// development. Satisfies the Metrics interface without actual data
// collection.
type NoOpMetrics struct{}

// NewNoOpMetrics creates a no-op metrics collector.
func NewNoOpMetrics() *NoOpMetrics {
	return &NoOpMetrics{}
}

func (n *NoOpMetrics) IncrementCounter(_ string, _ map[string]string, _ float64) {}

func (n *NoOpMetrics) RecordHistogram(_ string, _ map[string]string, _ float64) {}

// LoggingMiddleware provides observability for the completion request
// lifecycle. Captures structured logs and metrics with configurable
// redaction for sensitive prompt content.
type LoggingMiddleware struct {
	logger        *slog.Logger
	metrics       Metrics
	redactPrompts bool
}

// NewLoggingMiddleware creates observability middleware with structured
// logging around the completion transport. A nil logger falls back to
// slog.Default; a nil metrics collector falls back to NoOpMetrics.
func NewLoggingMiddleware(logger *slog.Logger, metrics Metrics, redactPrompts bool) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NewNoOpMetrics()
	}

	lm := &LoggingMiddleware{
		logger:        logger,
		metrics:       metrics,
		redactPrompts: redactPrompts,
	}

	return lm.Middleware
}

// Middleware wraps a Completer with request/response logging and metrics.
func (m *LoggingMiddleware) Middleware(next Completer) Completer {
	return CompleterFunc(func(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
		requestID := uuid.New().String()

		baseTags := map[string]string{
			"provider": req.Provider,
			"model":    req.Model,
		}

		m.logRequest(req, requestID)
		m.metrics.IncrementCounter("llm.requests.total", baseTags, 1)

		start := time.Now()
		resp, err := next.Complete(ctx, req)
		duration := time.Since(start)

		m.metrics.RecordHistogram("llm.request.duration_ms", baseTags, float64(duration.Milliseconds()))

		if err != nil {
			errorTags := maps.Clone(baseTags)
			errorTags["error"] = "true"
			m.metrics.IncrementCounter("llm.requests.errors", errorTags, 1)

			m.logger.Error("LLM request failed",
				"request_id", requestID,
				"provider", req.Provider,
				"model", req.Model,
				"duration_ms", duration.Milliseconds(),
				"error", err.Error(),
			)
		} else if resp != nil {
			m.handleSuccess(req, resp, requestID, duration, baseTags)
		}

		return resp, err
	})
}

// logRequest captures structured request data with configurable content
// redaction.
func (m *LoggingMiddleware) logRequest(req *CompletionRequest, requestID string) {
	fields := []any{
		"request_id", requestID,
		"provider", req.Provider,
		"model", req.Model,
		"message_count", len(req.Messages),
	}

	for k, v := range req.Parameters {
		fields = append(fields, "param_"+k, v)
	}

	if m.redactPrompts {
		fields = append(fields, "prompt_length", promptLength(req.Messages))
	} else {
		prompt := promptText(req.Messages)
		if len(prompt) > 200 {
			prompt = prompt[:200] + "..."
		}
		fields = append(fields, "prompt_preview", prompt)
	}

	m.logger.Info("LLM request started", fields...)
}

// handleSuccess logs response details and records token usage metrics.
func (m *LoggingMiddleware) handleSuccess(
	req *CompletionRequest,
	resp *CompletionResponse,
	requestID string,
	duration time.Duration,
	baseTags map[string]string,
) {
	m.metrics.IncrementCounter("llm.requests.success", baseTags, 1)
	m.metrics.RecordHistogram("llm.tokens.prompt", baseTags, float64(resp.Usage.PromptTokens))
	m.metrics.RecordHistogram("llm.tokens.completion", baseTags, float64(resp.Usage.CompletionTokens))
	m.metrics.RecordHistogram("llm.tokens.total", baseTags, float64(resp.Usage.TotalTokens))

	fields := []any{
		"request_id", requestID,
		"provider", req.Provider,
		"model", req.Model,
		"duration_ms", duration.Milliseconds(),
		"finish_reason", resp.FinishReason,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"total_tokens", resp.Usage.TotalTokens,
	}

	if m.redactPrompts {
		fields = append(fields, "response_length", len(resp.Content))
	} else {
		content := resp.Content
		if len(content) > 200 {
			content = content[:200] + "..."
		}
		fields = append(fields, "response_preview", content)
	}

	m.logger.Info("LLM request completed", fields...)
}

// promptLength sums the text content length across messages for redacted
// logging.
func promptLength(messages []Message) int {
	total := 0
	for _, msg := range messages {
		for _, part := range msg.Content {
			total += len(part.Text)
		}
	}
	return total
}

// promptText concatenates the text content across messages for non-redacted
// logging.
func promptText(messages []Message) string {
	var b strings.Builder
	for _, msg := range messages {
		for _, part := range msg.Content {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}
