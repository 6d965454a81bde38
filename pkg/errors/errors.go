package errors

import (
	"errors"
	"fmt"
)

// Domain error types for business logic

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists indicates a resource already exists
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("operation timeout")

	// ErrUnavailable indicates a service is unavailable
	ErrUnavailable = errors.New("service unavailable")
)

// Pipeline-specific errors

var (
	// ErrSourceUnavailable indicates the news-search API could not be reached
	ErrSourceUnavailable = errors.New("news source unavailable")

	// ErrModelUnavailable indicates the inference endpoint could not be reached
	ErrModelUnavailable = errors.New("model endpoint unavailable")

	// ErrDuplicateRecord indicates a record with the same title and url is already stored
	ErrDuplicateRecord = errors.New("duplicate record")

	// ErrUnknownCountry indicates a country code outside the configured set
	ErrUnknownCountry = errors.New("unknown country code")

	// ErrInsufficientData indicates too few records to compute a derived signal
	ErrInsufficientData = errors.New("insufficient data")

	// ErrRateLimitExceeded indicates an outbound API rate limit was hit
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
