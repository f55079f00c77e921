// Package errors provides error handling conventions for the overture CLI.
//
// This package defines sentinel errors for the sync error taxonomy,
// an ExitError type for CLI exit code handling, and exit code constants
// following standard Unix conventions.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [errors.Is]:
//
//	if errors.Is(err, overtureerrors.ErrLockHeld) {
//	    // another sync run is active
//	}
//
// Rich annotation (client name, file path) is added at call sites with
// github.com/cockroachdb/errors wrapping, so the sentinel stays matchable
// through the chain.
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, locking, permissions, etc.)
//
// A failed sync (aggregate success false) exits non-zero even when the
// process itself ran to completion.
package errors
