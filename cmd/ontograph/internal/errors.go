package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/graphrag"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// Exit code constants for the CLI
const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitError indicates a general error
	ExitError = 1
	// ExitRunFailed indicates at least one observation was rejected or failed
	ExitRunFailed = 2
	// ExitTimeout indicates the operation timed out
	ExitTimeout = 3
	// ExitCancelled indicates the operation was cancelled
	ExitCancelled = 4
	// ExitConfigError indicates a configuration error
	ExitConfigError = 10
	// ExitStoreError indicates the knowledge store or index could not be used
	ExitStoreError = 12
)

// CLIError represents a CLI-specific error with an exit code
type CLIError struct {
	Code    int
	Message string
	Cause   error
}

// Error implements the error interface
func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// WrapError creates a new CLIError wrapping an existing error
func WrapError(code int, message string, err error) *CLIError {
	return &CLIError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// NewCLIError creates a new CLIError with the given code and message
func NewCLIError(code int, message string) *CLIError {
	return &CLIError{
		Code:    code,
		Message: message,
	}
}

// HandleError prints err to the command's error output and returns the
// exit code for it.
func HandleError(cmd *cobra.Command, err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, context.Canceled) {
		cmd.PrintErrln("Operation cancelled")
		return ExitCancelled
	}

	if errors.Is(err, context.DeadlineExceeded) {
		cmd.PrintErrln("Operation timed out")
		return ExitTimeout
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		cmd.PrintErrln("Error:", cliErr.Message)
		if cliErr.Cause != nil && verboseRequested(cmd) {
			cmd.PrintErrln("Cause:", cliErr.Cause)
		}
		return cliErr.Code
	}

	var ontErr *types.OntologyError
	if errors.As(err, &ontErr) {
		cmd.PrintErrln("Error:", ontErr.Error())
		return exitCodeFor(err)
	}

	cmd.PrintErrln("Error:", err)
	return ExitError
}

// exitCodeFor maps the outermost error code to an exit code.
func exitCodeFor(err error) int {
	code := string(types.CodeOf(err))
	switch {
	case strings.HasPrefix(code, "CONFIG_"), code == string(types.INIT_CONFIG_FAILED):
		return ExitConfigError
	case strings.HasPrefix(code, "STORE_"), code == string(types.INIT_STORE_FAILED), graphrag.IsSystemic(err):
		return ExitStoreError
	default:
		return ExitError
	}
}

func verboseRequested(cmd *cobra.Command) bool {
	f := cmd.Flag("verbose")
	return f != nil && f.Changed
}

// IsVerbose checks if verbose mode is enabled via environment variable or flag
// This is used for panic recovery to determine if stack traces should be shown
func IsVerbose() bool {
	if os.Getenv("ONTOGRAPH_VERBOSE") != "" {
		return true
	}
	for _, arg := range os.Args {
		if arg == "-v" || arg == "--verbose" {
			return true
		}
	}
	return false
}
