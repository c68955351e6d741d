package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/liftlog/internal/logger"
)

var (
	// ErrInvalidInput is returned for out-of-range or non-numeric values. State is unchanged.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidTransition is returned when an operation does not apply to the current state.
	// Callers treat it as a no-op.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrPersistence wraps read or write failures of the snapshot store
	ErrPersistence = errors.New("persistence failure")
)

// InvalidInput wraps ErrInvalidInput with a formatted detail message
func InvalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// InvalidTransition wraps ErrInvalidTransition with a formatted detail message
func InvalidTransition(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidTransition, fmt.Sprintf(format, args...))
}

// Persistence wraps err as a persistence failure for the given operation
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// IsInvalidInput reports whether err is an input validation failure
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsInvalidTransition reports whether err is a rejected state transition
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
