package domain

import (
	"time"
)

// ArtifactType categorizes the content of a persisted artifact.
// Using typed constants instead of raw strings provides compile-time safety
// and prevents typos that could bypass validation.
type ArtifactType string

const (
	// ArtifactLLMPrompt is the raw prompt text sent to the model.
	ArtifactLLMPrompt ArtifactType = "llm_prompt"

	// ArtifactScreenshotLLM is a screenshot supplied as vision input.
	ArtifactScreenshotLLM ArtifactType = "screenshot_llm"

	// ArtifactLLMRequest is the fully assembled request payload.
	ArtifactLLMRequest ArtifactType = "llm_request"

	// ArtifactLLMResponse is the raw provider response body.
	ArtifactLLMResponse ArtifactType = "llm_response"

	// ArtifactLLMResponseParsed is the structured result extracted from
	// the provider response.
	ArtifactLLMResponseParsed ArtifactType = "llm_response_parsed"
)

// Artifact is an immutable, typed byte-blob record associated with a Step.
// Artifacts are created once and never mutated; together they form an audit
// trail of a single LLM invocation.
type Artifact struct {
	// ID uniquely identifies the artifact.
	ID string `json:"id" validate:"required"`

	// Type categorizes the artifact content.
	Type ArtifactType `json:"type" validate:"required,oneof=llm_prompt screenshot_llm llm_request llm_response llm_response_parsed"`

	// TaskID, StepID, and OrganizationID tie the artifact to the step it
	// was recorded for.
	TaskID         string `json:"task_id" validate:"required"`
	StepID         string `json:"step_id" validate:"required"`
	OrganizationID string `json:"organization_id" validate:"required"`

	// Data is the opaque artifact payload.
	Data []byte `json:"data"`

	// CreatedAt records when the artifact was persisted.
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks that the artifact record meets all requirements.
func (a Artifact) Validate() error { return validate.Struct(a) }
