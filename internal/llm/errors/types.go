// Package errors defines the error taxonomy for LLM operations: structured
// provider failures, classification of HTTP-level errors, and the wrapper
// surfaced to callers of the handler layer.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType categorizes LLM operation failures for diagnostics.
// Classification is informational only: the handler layer performs no retry,
// fallback, or timeout enforcement regardless of type.
type ErrorType string

const (
	// ErrorTypeTimeout indicates request timeout or deadline exceeded.
	ErrorTypeTimeout ErrorType = "timeout"

	// ErrorTypeRateLimit indicates the provider rejected the call for
	// rate limiting.
	ErrorTypeRateLimit ErrorType = "rate_limit"

	// ErrorTypeNetwork indicates network connectivity issues.
	ErrorTypeNetwork ErrorType = "network"

	// ErrorTypeProvider indicates the provider service is unavailable.
	ErrorTypeProvider ErrorType = "provider_unavailable"

	// ErrorTypeValidation indicates the provider rejected the request as
	// malformed.
	ErrorTypeValidation ErrorType = "validation_failed"

	// ErrorTypeContent indicates content blocked by safety filters.
	ErrorTypeContent ErrorType = "content_filtered"

	// ErrorTypeAuth indicates authentication failed.
	ErrorTypeAuth ErrorType = "authentication"

	// ErrorTypePermission indicates insufficient permissions.
	ErrorTypePermission ErrorType = "permission_denied"

	// ErrorTypeQuota indicates account quota exceeded.
	ErrorTypeQuota ErrorType = "quota_exceeded"

	// ErrorTypeUnknown indicates an unclassified error.
	ErrorTypeUnknown ErrorType = "unknown"
)

// Common LLM operation errors for consistent error handling.
var (
	// ErrUnknownProvider indicates an unknown or unsupported provider.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrInvalidResponse indicates the provider returned an invalid response.
	ErrInvalidResponse = errors.New("invalid provider response")

	// ErrEmptyResponse indicates the provider returned no completion content.
	ErrEmptyResponse = errors.New("empty provider response")
)

// ProviderError captures structured error responses from LLM providers.
// Includes HTTP status codes and provider-specific error codes to enable
// precise error diagnosis without any retry machinery attached.
type ProviderError struct {
	Provider   string    `json:"provider"`    // Provider name
	StatusCode int       `json:"status_code"` // HTTP status code
	Message    string    `json:"message"`     // Error message
	Code       string    `json:"code"`        // Provider error code
	Type       ErrorType `json:"type"`        // Classified error type
}

// Error returns formatted provider error with status code context.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// CompletionError wraps any failure from a remote completion call with the
// provider configuration key that produced it. Every error surfaced by the
// handler layer for a failed remote call is of this type, with the original
// cause reachable through Unwrap for errors.Is/As diagnostics.
type CompletionError struct {
	// Key is the provider configuration key the handler was resolved for.
	Key string

	// Err is the original cause.
	Err error
}

// Error returns the provider key with the underlying cause.
func (e *CompletionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm provider error for %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("llm provider error for %s", e.Key)
}

// Unwrap exposes the original cause for errors.Is and errors.As.
func (e *CompletionError) Unwrap() error { return e.Err }

// IsProviderError reports whether err carries a structured ProviderError
// anywhere in its chain.
func IsProviderError(err error) bool {
	var provErr *ProviderError
	return errors.As(err, &provErr)
}
