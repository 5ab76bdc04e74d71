package model

import (
	"errors"
	"fmt"
)

// ExitCode defines the CLI's process exit codes. They let scripts tell a
// missing tool apart from a missing checkout or a port shortage.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred, including
	// an external tool that ran but exited non-zero.
	ExitGeneralError ExitCode = 1

	// ExitResourceMissing indicates a cloned resource (book directory, PDF)
	// was not found where expected.
	ExitResourceMissing ExitCode = 2

	// ExitToolMissing indicates a required external tool (mdbook, cargo,
	// just, rustup, python3) is not installed or not on PATH.
	ExitToolMissing ExitCode = 3

	// ExitPortAllocationFailed indicates no free port was found for a
	// documentation server.
	ExitPortAllocationFailed ExitCode = 4

	// ExitGitError indicates a git clone failed.
	ExitGitError ExitCode = 5

	// ExitInvalidArgument indicates a malformed command-line argument,
	// such as a non-numeric page.
	ExitInvalidArgument ExitCode = 6

	// ExitUnsupportedOS indicates there is no known way to open a URL on
	// this operating system.
	ExitUnsupportedOS ExitCode = 7
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Hint is an optional follow-up line telling the user how to fix the
	// problem, e.g. "Please install mdbook: cargo install mdbook".
	Hint string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// WithHint returns e with Hint set, for chaining at construction sites.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ExitCodeOf returns the exit code carried by the first CLIError in err's
// chain, ExitGeneralError for any other error, and ExitSuccess for nil.
func ExitCodeOf(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return ExitGeneralError
}
