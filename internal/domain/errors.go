// Package domain holds the pipeline state model, the roadmap types, and the
// classified error taxonomy for the generation service.
package domain

import "fmt"

// GenerationErrorKind categorizes a failed call to the generative service.
// The orchestrator does not branch on the kind; it exists so callers can pick
// a user-facing message and decide whether a caller-initiated retry makes
// sense.
type GenerationErrorKind string

const (
	// GenerationTransport indicates a connectivity or protocol failure.
	GenerationTransport GenerationErrorKind = "transport"

	// GenerationTimeout indicates the call exceeded its bounded deadline.
	GenerationTimeout GenerationErrorKind = "timeout"

	// GenerationRateLimit indicates provider rate limiting or quota exhaustion.
	GenerationRateLimit GenerationErrorKind = "rate_limit"

	// GenerationAuth indicates an authentication or key-configuration failure.
	GenerationAuth GenerationErrorKind = "auth"

	// GenerationProvider indicates a provider-side error (overload, 5xx).
	GenerationProvider GenerationErrorKind = "provider"
)

// GenerationError is the classified error returned by the generative client.
type GenerationError struct {
	Kind       GenerationErrorKind
	Message    string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("generation %s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("generation %s error: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Transient reports whether a caller-initiated retry may succeed.
// Authentication and key-configuration failures are permanent.
func (e *GenerationError) Transient() bool {
	switch e.Kind {
	case GenerationTransport, GenerationTimeout, GenerationRateLimit, GenerationProvider:
		return true
	default:
		return false
	}
}

// NewGenerationError creates a classified generation error.
func NewGenerationError(kind GenerationErrorKind, message string) *GenerationError {
	return &GenerationError{Kind: kind, Message: message}
}

// WithStatusCode records the upstream HTTP status code.
func (e *GenerationError) WithStatusCode(code int) *GenerationError {
	e.StatusCode = code
	return e
}

// WithCause records the underlying error.
func (e *GenerationError) WithCause(err error) *GenerationError {
	e.Err = err
	return e
}
