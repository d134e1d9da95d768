// Package errors provides error handling conventions for the vaultmd CLI.
//
// This package re-exports the cockroachdb/errors helpers used throughout
// the codebase, defines sentinel errors for common failure conditions,
// and an ExitError type for CLI exit code handling.
//
// # Exit Codes
//
//   - ExitSuccess (0): command completed normally
//   - ExitUser (1): user-related error (bad arguments, unreadable files)
//   - ExitConfig (2): rule file missing or invalid; nothing was modified
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion. It supports unwrapping via [errors.Unwrap] and [errors.As]:
//
//	var exitErr *errors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
