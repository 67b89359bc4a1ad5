// Package logging provides logging utilities for fruitstand.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("config saved", "keys", n)
//	logging.Warn("preview load timed out", "url", url, "timeout", timeout)
//
// While the demo panel owns the terminal, logs are redirected to a file
// with Redirect.
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Rendering %s...", url)
//	logging.UserSuccess("Screenshot written to %s", path)
//	logging.UserWarning("Persisted demo state was corrupt, using defaults")
//	logging.UserError("Render failed: %v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
//
// Both can be swapped with SetUserOutput.
//
// # Status Indicators
//
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
