package sqlgate

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	rows, err := manager.Select(ctx, "SELECT * FROM movies")
//	if errors.Is(err, sqlgate.ErrConnectionFailed) {
//	    // all connect attempts exhausted
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates that connection establishment failed
	// after all retry attempts were exhausted. The last driver error is
	// wrapped alongside this sentinel.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrExecutionFailed indicates a statement failed once a connection was
	// already established. Execution failures are never retried.
	ErrExecutionFailed = errors.New("execution failed")

	// ErrBootstrapFailed indicates the schema bootstrap script failed while
	// initializing a fresh file-based database.
	ErrBootstrapFailed = errors.New("schema bootstrap failed")

	// ErrUnsupportedAuthMethod indicates the requested authentication method
	// is not supported by the selected backend.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrScriptNotFound indicates a bootstrap script path does not exist.
	ErrScriptNotFound = errors.New("bootstrap script not found")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrBootstrapFailed):
		return ExitBootstrapFailed
	case errors.Is(err, ErrExecutionFailed):
		return ExitExecutionFailed
	case errors.Is(err, ErrScriptNotFound):
		return ExitConfigError
	}

	errStr := err.Error()

	// Cobra reports flag/argument misuse as plain errors; map the usual
	// phrasings to the usage exit code.
	usagePatterns := []string{
		"unknown flag",
		"unknown shorthand flag",
		"unknown command",
		"accepts ",
		"required flag",
		"invalid argument",
	}
	for _, p := range usagePatterns {
		if strings.Contains(errStr, p) {
			return ExitUsageError
		}
	}

	// Check for common connection error patterns from drivers that were not
	// routed through the retry gate.
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
