package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// LLM error codes
const (
	// Provider errors
	ErrProviderNotFound     types.ErrorCode = "LLM_PROVIDER_NOT_FOUND"
	ErrProviderInitFailed   types.ErrorCode = "LLM_PROVIDER_INIT_FAILED"
	ErrProviderUnavailable  types.ErrorCode = "LLM_PROVIDER_UNAVAILABLE"
	ErrProviderUnauthorized types.ErrorCode = "LLM_PROVIDER_UNAUTHORIZED"
	ErrProviderRateLimited  types.ErrorCode = "LLM_PROVIDER_RATE_LIMITED"

	// Request errors
	ErrInvalidRequest types.ErrorCode = "LLM_INVALID_REQUEST"

	// Completion errors
	ErrCompletionFailed  types.ErrorCode = "LLM_COMPLETION_FAILED"
	ErrContentFiltered   types.ErrorCode = "LLM_CONTENT_FILTERED"
	ErrTimeoutExceeded   types.ErrorCode = "LLM_TIMEOUT_EXCEEDED"
	ErrContextCanceled   types.ErrorCode = "LLM_CONTEXT_CANCELED"
	ErrMalformedResponse types.ErrorCode = "LLM_MALFORMED_RESPONSE"
	ErrRateLimitExceeded types.ErrorCode = "LLM_RATE_LIMIT_EXCEEDED"
	ErrNetworkFailed     types.ErrorCode = "LLM_NETWORK_FAILED"
)

// rateLimitMarkers are substrings of provider error messages that signal
// throttling. Gemini reports quota exhaustion as RESOURCE_EXHAUSTED / 429.
var rateLimitMarkers = []string{
	"429",
	"quota",
	"rate limit",
	"ratelimit",
	"resource_exhausted",
	"resource exhausted",
	"too many requests",
	"overloaded",
}

// IsRateLimited reports whether err signals provider throttling.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if types.HasCode(err, ErrProviderRateLimited) {
		return true
	}
	return hasRateLimitMarker(err.Error())
}

func hasRateLimitMarker(msg string) bool {
	lower := strings.ToLower(msg)
	for _, m := range rateLimitMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// IsRetryable determines if an error is transient and may succeed on retry.
func IsRetryable(err error) bool {
	var oe *types.OntologyError
	if !errors.As(err, &oe) {
		return false
	}
	if oe.Retryable {
		return true
	}
	switch oe.Code {
	case ErrNetworkFailed, ErrProviderRateLimited, ErrProviderUnavailable, ErrTimeoutExceeded:
		return true
	default:
		return false
	}
}

// NewProviderNotFoundError creates an error for when a provider is not found
func NewProviderNotFoundError(providerName string) *types.OntologyError {
	return types.NewError(ErrProviderNotFound, "provider not found: "+providerName)
}

// NewProviderUnavailableError creates a retryable error for a provider that is temporarily unavailable
func NewProviderUnavailableError(providerName string, cause error) *types.OntologyError {
	return &types.OntologyError{
		Code:      ErrProviderUnavailable,
		Message:   "provider temporarily unavailable: " + providerName,
		Retryable: true,
		Cause:     cause,
	}
}

// NewRateLimitError creates a retryable error for a single throttled call.
func NewRateLimitError(providerName string, cause error) *types.OntologyError {
	return &types.OntologyError{
		Code:      ErrProviderRateLimited,
		Message:   "rate limit exceeded for provider: " + providerName,
		Retryable: true,
		Cause:     cause,
	}
}

// NewRateLimitExceededError is returned once every retry was throttled.
func NewRateLimitExceededError(attempts int, cause error) *types.OntologyError {
	return types.WrapError(ErrRateLimitExceeded,
		fmt.Sprintf("rate limit exceeded after max retries (%d attempts)", attempts), cause)
}

// NewMalformedResponseError reports model output that is not the expected structure.
func NewMalformedResponseError(message string, cause error) *types.OntologyError {
	return types.WrapError(ErrMalformedResponse, message, cause)
}

// NewInvalidRequestError creates an error for invalid requests
func NewInvalidRequestError(message string) *types.OntologyError {
	return types.NewError(ErrInvalidRequest, message)
}

// NewNetworkError creates a retryable error for network failures
func NewNetworkError(message string, cause error) *types.OntologyError {
	return &types.OntologyError{
		Code:      ErrNetworkFailed,
		Message:   message,
		Retryable: true,
		Cause:     cause,
	}
}

// NewTimeoutError creates a retryable error for timeout failures
func NewTimeoutError(message string, cause error) *types.OntologyError {
	return &types.OntologyError{
		Code:      ErrTimeoutExceeded,
		Message:   message,
		Retryable: true,
		Cause:     cause,
	}
}

// NewProviderUnauthorizedError creates an unauthorized provider error
func NewProviderUnauthorizedError(providerName string, cause error) *types.OntologyError {
	return &types.OntologyError{
		Code:    ErrProviderUnauthorized,
		Message: fmt.Sprintf("provider '%s' authentication failed", providerName),
		Cause:   cause,
	}
}

// NewAuthError creates an authentication error for provider integration
func NewAuthError(provider string, err error) error {
	return NewProviderUnauthorizedError(provider, err)
}

// NewProviderError creates a generic provider error
func NewProviderError(provider string, err error) error {
	if err == nil {
		err = fmt.Errorf("unknown error")
	}
	return NewProviderUnavailableError(provider, err)
}

// TranslateError maps a raw provider error onto a coded error based on
// its message. Already-coded errors pass through unchanged.
func TranslateError(provider string, err error) error {
	if err == nil {
		return nil
	}

	var oe *types.OntologyError
	if errors.As(err, &oe) {
		return err
	}

	errMsg := err.Error()
	lowerMsg := strings.ToLower(errMsg)

	switch {
	case errors.Is(err, context.Canceled):
		return types.WrapError(ErrContextCanceled, "request canceled", err)
	case hasRateLimitMarker(errMsg):
		return NewRateLimitError(provider, err)
	case strings.Contains(lowerMsg, "unauthorized") || strings.Contains(lowerMsg, "authentication") || strings.Contains(lowerMsg, "api key"):
		return NewProviderUnauthorizedError(provider, err)
	case strings.Contains(lowerMsg, "timeout") || strings.Contains(lowerMsg, "deadline"):
		return NewTimeoutError(errMsg, err)
	case strings.Contains(lowerMsg, "network") || strings.Contains(lowerMsg, "connection"):
		return NewNetworkError(errMsg, err)
	case strings.Contains(lowerMsg, "safety") || strings.Contains(lowerMsg, "blocked"):
		return types.WrapError(ErrContentFiltered, "content filtered by provider", err)
	case strings.Contains(lowerMsg, "not found"):
		return NewProviderNotFoundError(provider)
	default:
		return NewProviderUnavailableError(provider, err)
	}
}
