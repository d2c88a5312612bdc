package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Router selects the appropriate provider adapter for request routing.
// This interface is implemented by the providers package.
type Router interface {
	Pick(provider string) (ProviderAdapter, error)
}

// ProviderAdapter abstracts provider-specific HTTP communication patterns.
// Each provider (OpenAI, Anthropic) implements this interface to handle its
// unique API format, authentication scheme, and response structure.
type ProviderAdapter interface {
	// Build constructs a provider-specific HTTP request from a normalized
	// completion request.
	Build(ctx context.Context, req *CompletionRequest) (*http.Request, error)

	// Parse extracts normalized data from the provider's HTTP response.
	Parse(httpResp *http.Response) (*CompletionResponse, error)

	// Name returns the canonical provider identifier.
	Name() string
}

// Completer processes completion requests through a composable middleware
// pipeline. Core abstraction enabling request preprocessing, response
// postprocessing, and cross-cutting concerns like observability.
type Completer interface {
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)
}

// CompleterFunc adapts a function to the Completer interface.
// Enables middleware composition with function-based completers.
type CompleterFunc func(context.Context, *CompletionRequest) (*CompletionResponse, error)

// Complete implements the Completer interface.
func (f CompleterFunc) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	return f(ctx, req)
}

// Middleware transforms a Completer into an enhanced Completer for
// composable behavior. Applied in reverse order with the last middleware
// closest to the core completer.
type Middleware func(Completer) Completer

// Chain builds a middleware pipeline around a core completer.
// Middleware executes in the order provided with the first middleware
// outermost.
func Chain(c Completer, middlewares ...Middleware) Completer {
	for i := len(middlewares) - 1; i >= 0; i-- {
		c = middlewares[i](c)
	}
	return c
}

// NewHTTPCompleter creates the core completer that makes actual HTTP
// requests to providers. There is deliberately no retry, rate limiting, or
// timeout enforcement in this pipeline: a call blocks until the provider
// responds or the caller's context is done.
func NewHTTPCompleter(client *http.Client, router Router) Completer {
	if client == nil {
		client = &http.Client{}
	}
	return &httpCompleter{client: client, router: router}
}

// httpCompleter is the core completer that makes actual HTTP requests.
type httpCompleter struct {
	client *http.Client
	router Router
}

// Complete implements Completer by making one HTTP request to the selected
// provider and parsing the response.
func (h *httpCompleter) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	adapter, err := h.router.Pick(req.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to select provider: %w", err)
	}

	httpReq, err := adapter.Build(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	start := time.Now()
	httpResp, err := h.client.Do(httpReq)
	latency := time.Since(start)

	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	resp, err := adapter.Parse(httpResp)
	if err != nil {
		return nil, err
	}
	resp.Usage.LatencyMs = latency.Milliseconds()

	return resp, nil
}
