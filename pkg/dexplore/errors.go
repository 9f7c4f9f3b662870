package dexplore

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := list.Load(ctx, params)
//	if errors.Is(err, dexplore.ErrStaleResult) {
//	    // A newer load superseded this one
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates the catalog database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrServiceUnavailable indicates the metadata service answered with a server error
	// or could not be reached.
	ErrServiceUnavailable = errors.New("metadata service unavailable")

	// ErrUnauthorized indicates the metadata service rejected the credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrStaleResult indicates a load finished after a newer load was issued
	// and its result was discarded.
	ErrStaleResult = errors.New("stale result discarded")

	// ErrNotInteractive indicates an interactive command ran without a terminal.
	ErrNotInteractive = errors.New("not an interactive terminal")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")
)

// usageErrorPatterns match the argument and flag errors cobra returns.
var usageErrorPatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"required flag",
	"invalid argument",
	"none of the others can be",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrServiceUnavailable):
		return ExitServiceError
	case errors.Is(err, ErrUnauthorized):
		return ExitUnauthorized
	case errors.Is(err, ErrNotInteractive):
		return ExitUsageError
	}

	errStr := err.Error()
	for _, pattern := range usageErrorPatterns {
		if strings.Contains(errStr, pattern) {
			return ExitUsageError
		}
	}
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
