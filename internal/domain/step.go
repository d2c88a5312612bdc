// Package domain defines the core types shared across the LLM invocation
// layer: steps, artifacts, and their validation rules.
package domain

import (
	"github.com/go-playground/validator/v10"
)

// validate is the package-level validator instance used for struct validation.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Step identifies a single unit of work in a task run. The LLM layer never
// owns or mutates steps; it only tags persisted artifacts and incremental
// cost updates with these identifiers.
type Step struct {
	// TaskID identifies the task the step belongs to.
	TaskID string `json:"task_id" validate:"required"`

	// StepID uniquely identifies the step within its task.
	StepID string `json:"step_id" validate:"required"`

	// OrganizationID attributes the step to a tenant for cost accounting.
	OrganizationID string `json:"organization_id" validate:"required"`
}

// Validate checks that all step identifiers are present.
// Returns nil if valid, or a validation error describing the first
// constraint violation.
func (s Step) Validate() error { return validate.Struct(s) }
