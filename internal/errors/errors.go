package errors

import (
	"errors"
	"fmt"
)

// Exit codes for fruitstand
const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitConfigError   = 2
	ExitStorageError  = 3
	ExitParamsError   = 4
	ExitRenderError   = 5
	ExitCaptureFailed = 6
	ExitChartError    = 7
)

// ErrCorruptState marks a persisted demo configuration that could not be
// decoded. It is recovered locally by falling back to defaults.
var ErrCorruptState = errors.New("corrupt persisted state")

// FruitstandError is the base error type for fruitstand
type FruitstandError struct {
	Code    int
	Message string
	Cause   error
}

func (e *FruitstandError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *FruitstandError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *FruitstandError) ExitCode() int {
	return e.Code
}

// New creates a new FruitstandError
func New(code int, message string) *FruitstandError {
	return &FruitstandError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a FruitstandError
func Wrap(code int, message string, cause error) *FruitstandError {
	return &FruitstandError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *FruitstandError {
	return Wrap(ExitConfigError, message, cause)
}

// StorageError returns an error for persisted state reads and writes
func StorageError(op string, cause error) *FruitstandError {
	return Wrap(ExitStorageError, fmt.Sprintf("storage %s failed", op), cause)
}

// CorruptState wraps a decode failure of the persisted demo configuration.
// The result matches ErrCorruptState with Is.
func CorruptState(cause error) *FruitstandError {
	return Wrap(ExitStorageError, ErrCorruptState.Error(), fmt.Errorf("%w: %v", ErrCorruptState, cause))
}

// ParamsError returns an error for the metric params round trip
func ParamsError(message string, cause error) *FruitstandError {
	return Wrap(ExitParamsError, message, cause)
}

// RenderError returns an error for preview render failures
func RenderError(message string, cause error) *FruitstandError {
	return Wrap(ExitRenderError, message, cause)
}

// CaptureFailed returns an error for headless browser screenshots
func CaptureFailed(op string, cause error) *FruitstandError {
	return Wrap(ExitCaptureFailed, fmt.Sprintf("screenshot %s failed", op), cause)
}

// ChartError returns an error for chart rendering
func ChartError(message string, cause error) *FruitstandError {
	return Wrap(ExitChartError, message, cause)
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *FruitstandError {
	return New(ExitGeneralError, message)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var fsErr *FruitstandError
	if errors.As(err, &fsErr) {
		return fsErr.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
