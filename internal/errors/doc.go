// Package errors defines the sentinel errors shared across tempnotes.
//
// Errors are grouped by the failure class a caller needs to react to:
//
//   - Storage errors: the embedded database is unavailable or a write failed.
//   - Payload errors: imported JSON or an encryption envelope is malformed.
//   - Authentication errors: a password does not open an envelope.
//   - Validation errors: user input or a lifecycle operation is out of range.
//
// Packages wrap these with fmt.Errorf("...: %w", err) so callers can test
// with errors.Is. Message turns any error into the one-line status shown to
// the user.
package errors
