// Package errors provides typed errors with exit codes for fruitstand.
//
// # Error Types
//
// FruitstandError is the base error type that wraps an error with an exit code:
//
//	type FruitstandError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
//	ExitSuccess       = 0  // Success
//	ExitGeneralError  = 1  // General/unknown errors
//	ExitConfigError   = 2  // Settings could not be loaded or validated
//	ExitStorageError  = 3  // Persisted demo state could not be read or written
//	ExitParamsError   = 4  // Metric params round trip failed
//	ExitRenderError   = 5  // Preview render failed
//	ExitCaptureFailed = 6  // Headless browser screenshot failed
//	ExitChartError    = 7  // Chart rendering failed
//
// # Corrupt State
//
// A persisted demo configuration that does not decode is not fatal. The
// store wraps the decode failure with CorruptState, logs it and carries on
// with defaults. Callers that need to tell the fallback apart use:
//
//	if errors.Is(err, errors.ErrCorruptState) { ... }
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
