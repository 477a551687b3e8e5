package core

import (
	"errors"
	"fmt"
)

var (
	// ErrModelUnavailable means no usable artifact is loaded
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrInvalidInput means the email text is empty or missing
	ErrInvalidInput = errors.New("invalid input: email text is empty")

	// ErrParseFailure means a single corpus item could not be decoded into text
	ErrParseFailure = errors.New("failed to parse email")

	// ErrFeatureDimensionMismatch means the composed vector does not match the trained width
	ErrFeatureDimensionMismatch = errors.New("feature dimension mismatch")

	// ErrCacheMiss is returned by cache repositories when no live entry exists
	ErrCacheMiss = errors.New("cache miss")
)

// DimensionError reports the expected and actual widths of a feature vector
type DimensionError struct {
	Expected int
	Actual   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: expected %d columns, got %d", ErrFeatureDimensionMismatch, e.Expected, e.Actual)
}

func (e *DimensionError) Unwrap() error {
	return ErrFeatureDimensionMismatch
}
