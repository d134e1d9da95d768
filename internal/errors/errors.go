package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Exit codes for the vaultmd CLI.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (bad arguments, unreadable
	// vault, etc.).
	ExitUser = 1

	// ExitConfig indicates the rule file could not be loaded: missing,
	// contains tabs, or does not parse as a mapping.
	ExitConfig = 2
)

// Re-exported helpers from cockroachdb/errors so callers need a single
// errors import.
var (
	New    = errors.New
	Newf   = errors.Newf
	Wrap   = errors.Wrap
	Wrapf  = errors.Wrapf
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

// Sentinel errors for common failure conditions.
var (
	// ErrNoRuleFile indicates no rule file was found in the vault root.
	ErrNoRuleFile = errors.New("no rule file found")

	// ErrInvalidRuleFile indicates the rule file failed validation.
	ErrInvalidRuleFile = errors.New("invalid rule file")

	// ErrNotFound indicates the requested file or directory was not found.
	ErrNotFound = errors.New("not found")
)

// ExitError wraps an error with an exit code and optional suggestion for
// the CLI boundary. It implements the error interface and supports
// unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewConfigError creates an ExitError with ExitConfig code. Rule-file
// loading failures abort the run before any document is touched.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitConfig,
		Suggestion: "Check the rule file in the vault root",
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}
