package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/calder-ai/llmgate/internal/domain"
	"github.com/calder-ai/llmgate/internal/llm/configuration"
	llmerrors "github.com/calder-ai/llmgate/internal/llm/errors"
	"github.com/calder-ai/llmgate/internal/llm/transport"
)

// APIHandler performs one end-to-end model invocation: message construction,
// artifact persistence, the remote call, cost accounting, and response
// parsing. Each invocation is independent and stateless.
type APIHandler interface {
	Invoke(ctx context.Context, prompt string, opts ...InvokeOption) (Parsed, error)
}

// APIHandlerFunc adapts a function to the APIHandler interface. Custom
// handlers are typically registered this way.
type APIHandlerFunc func(ctx context.Context, prompt string, opts ...InvokeOption) (Parsed, error)

// Invoke implements the APIHandler interface.
func (f APIHandlerFunc) Invoke(ctx context.Context, prompt string, opts ...InvokeOption) (Parsed, error) {
	return f(ctx, prompt, opts...)
}

// InvokeOption carries the optional inputs of one invocation.
type InvokeOption func(*invokeOptions)

type invokeOptions struct {
	step        *domain.Step
	screenshots [][]byte
	parameters  map[string]any
}

// WithStep associates the invocation with a unit of work. When set, the
// handler persists artifacts and reports incremental cost against the step.
func WithStep(step domain.Step) InvokeOption {
	return func(o *invokeOptions) { o.step = &step }
}

// WithScreenshots supplies screenshot bytes as vision input. Screenshots
// are discarded before message construction when the resolved configuration
// does not support vision.
func WithScreenshots(screenshots ...[]byte) InvokeOption {
	return func(o *invokeOptions) { o.screenshots = screenshots }
}

// WithParameters overrides the process-wide default invocation parameters
// for this call.
func WithParameters(parameters map[string]any) InvokeOption {
	return func(o *invokeOptions) { o.parameters = parameters }
}

// apiHandler is the handler produced by the factory: the resolved provider
// configuration plus the factory's collaborators.
type apiHandler struct {
	key     string
	config  configuration.ProviderConfig
	factory *Factory
}

// Invoke runs the invocation sequence. Side effects are strictly sequential:
// each artifact write is awaited before proceeding, so the persisted
// artifacts read as a consistent before/after narrative of the call. Any
// failure aborts the remainder of the sequence; artifacts already written
// remain.
func (h *apiHandler) Invoke(ctx context.Context, prompt string, opts ...InvokeOption) (Parsed, error) {
	var o invokeOptions
	for _, opt := range opts {
		opt(&o)
	}

	parameters := o.parameters
	if parameters == nil {
		parameters = h.factory.APIParameters()
	}

	if o.step != nil {
		if err := h.factory.artifactStore.Create(ctx, *o.step, domain.ArtifactLLMPrompt, []byte(prompt)); err != nil {
			return nil, err
		}
		for _, screenshot := range o.screenshots {
			if err := h.factory.artifactStore.Create(ctx, *o.step, domain.ArtifactScreenshotLLM, screenshot); err != nil {
				return nil, err
			}
		}
	}

	// Configuration overrides caller intent: models without vision support
	// silently drop screenshots before message construction.
	screenshots := o.screenshots
	if !h.config.SupportsVision {
		screenshots = nil
	}

	messages, err := h.factory.messageBuilder.Build(ctx, prompt, screenshots)
	if err != nil {
		return nil, fmt.Errorf("failed to build messages: %w", err)
	}

	if o.step != nil {
		requestData, err := json.Marshal(requestPayload(h.config.ModelName, messages, parameters))
		if err != nil {
			return nil, fmt.Errorf("failed to encode request artifact: %w", err)
		}
		if err := h.factory.artifactStore.Create(ctx, *o.step, domain.ArtifactLLMRequest, requestData); err != nil {
			return nil, err
		}
	}

	resp, err := h.factory.completer.Complete(ctx, &transport.CompletionRequest{
		Provider:   h.config.Provider,
		Model:      h.config.ModelName,
		Messages:   messages,
		Parameters: parameters,
	})
	if err != nil {
		// Provider-level failures are already structured; anything else is
		// unexpected and logged before wrapping. Neither is retried.
		if !llmerrors.IsProviderError(err) {
			h.factory.logger.Error("LLM request failed unexpectedly",
				"llm_key", h.key,
				"error", err.Error(),
			)
		}
		return nil, &llmerrors.CompletionError{Key: h.key, Err: err}
	}

	if o.step != nil {
		if err := h.factory.artifactStore.Create(ctx, *o.step, domain.ArtifactLLMResponse, resp.RawBody); err != nil {
			return nil, err
		}

		cost := CompletionCost(h.config.Provider, h.config.ModelName, resp.Usage)
		if err := h.factory.stepStore.AddIncrementalCost(
			ctx, o.step.TaskID, o.step.StepID, o.step.OrganizationID, cost,
		); err != nil {
			return nil, err
		}
	}

	parsed, err := h.factory.parser.Parse(resp)
	if err != nil {
		return nil, err
	}

	if o.step != nil {
		parsedData, err := json.MarshalIndent(parsed, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode parsed response artifact: %w", err)
		}
		if err := h.factory.artifactStore.Create(ctx, *o.step, domain.ArtifactLLMResponseParsed, parsedData); err != nil {
			return nil, err
		}
	}

	return parsed, nil
}

// requestPayload assembles the request artifact body: model and messages
// merged with the invocation parameters.
func requestPayload(model string, messages []transport.Message, parameters map[string]any) map[string]any {
	payload := map[string]any{
		"model":    model,
		"messages": messages,
	}
	for k, v := range parameters {
		payload[k] = v
	}
	return payload
}
