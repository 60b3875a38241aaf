// Package logging provides the leveled logger used by tempnotes commands
// and the storage engine.
//
// Verbosity is controlled by two flags:
//
//   - --verbose: shows info messages
//   - --debug: shows info and debug messages
//
// Warnings and errors are always written to stderr. Storage read paths use
// them to report the diagnostics behind a degraded (empty) result.
package logging
