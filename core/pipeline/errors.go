package pipeline

import (
	"errors"
	"fmt"
)

// Structural validation failures. These describe the shape of the candidate
// record, not the inference call, and are never retried.
var (
	// ErrMissingDate means the candidate record has no start or end date.
	ErrMissingDate = errors.New("event is missing a start or end date")
	// ErrMalformedDate means a date was present but not parseable as an instant.
	ErrMalformedDate = errors.New("event date is not a parseable instant")
	// ErrEventOrder means the end date is not strictly after the start date.
	ErrEventOrder = errors.New("event end date must be after start date")
)

// InferenceErrorKind classifies failures of the external inference collaborator.
type InferenceErrorKind string

const (
	// InferenceRateLimited is transient; the caller may retry after a delay.
	InferenceRateLimited InferenceErrorKind = "rate_limited"
	// InferenceRequestTooLarge means the input must be shortened before retrying.
	InferenceRequestTooLarge InferenceErrorKind = "request_too_large"
	// InferenceUnavailable covers every other collaborator failure.
	InferenceUnavailable InferenceErrorKind = "unavailable"
)

// InferenceError wraps a failure of the external inference collaborator.
// The pipeline performs no retries itself; retry policy belongs to the caller.
type InferenceError struct {
	Kind       InferenceErrorKind
	StatusCode int
	Err        error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference collaborator failed (%v): %v", e.Kind, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// Retryable reports whether retrying the identical request may succeed.
func (e *InferenceError) Retryable() bool {
	return e.Kind == InferenceRateLimited
}

// ResponseFormatError means the collaborator returned text that is not
// parseable as the agreed JSON shape. This indicates a contract violation,
// not a transient condition, so it is not retried without an input change.
type ResponseFormatError struct {
	Raw string
	Err error
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("inference response is not valid JSON: %v", e.Err)
}

func (e *ResponseFormatError) Unwrap() error {
	return e.Err
}
