package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for ontograph errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
	CONFIG_NOT_FOUND         ErrorCode = "CONFIG_NOT_FOUND"
)

// Storage error codes shared by the knowledge store and the semantic index.
const (
	STORE_OPEN_FAILED     ErrorCode = "STORE_OPEN_FAILED"
	STORE_QUERY_FAILED    ErrorCode = "STORE_QUERY_FAILED"
	STORE_CONNECTION_LOST ErrorCode = "STORE_CONNECTION_LOST"
)

// Initialization error codes
const (
	INIT_CONFIG_FAILED ErrorCode = "INIT_CONFIG_FAILED"
	INIT_STORE_FAILED  ErrorCode = "INIT_STORE_FAILED"
)

// OntologyError represents a structured error with error code, message, and optional cause.
// It supports error wrapping and retryability hints for error handling logic.
type OntologyError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *OntologyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As chains.
func (e *OntologyError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an OntologyError with the same Code.
func (e *OntologyError) Is(target error) bool {
	var other *OntologyError
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

// NewError creates a new non-retryable OntologyError.
func NewError(code ErrorCode, message string) *OntologyError {
	return &OntologyError{Code: code, Message: message}
}

// NewRetryableError creates a retryable OntologyError for transient failures.
func NewRetryableError(code ErrorCode, message string) *OntologyError {
	return &OntologyError{Code: code, Message: message, Retryable: true}
}

// WrapError creates a new non-retryable OntologyError wrapping cause.
func WrapError(code ErrorCode, message string, cause error) *OntologyError {
	return &OntologyError{Code: code, Message: message, Cause: cause}
}

// HasCode reports whether any OntologyError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var oe *OntologyError
		if !errors.As(err, &oe) {
			return false
		}
		if oe.Code == code {
			return true
		}
		err = oe.Cause
	}
	return false
}

// CodeOf returns the code of the outermost OntologyError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var oe *OntologyError
	if errors.As(err, &oe) {
		return oe.Code
	}
	return ""
}
