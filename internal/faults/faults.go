/*
Package faults defines the error taxonomy shared by every experiment:
validation and lookup failures are client faults, generation and parse
failures are server faults that may route to a local fallback.
*/
package faults

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports a request field that violated its declared constraint.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Constraint)
}

// NewValidation builds a ValidationError with a formatted constraint message.
func NewValidation(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Constraint: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an enumerated key missing from a knowledge base.
type NotFoundError struct {
	Kind string // e.g. "mood", "bias"
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Kind, e.Key)
}

// GenerationError wraps a failure of the external text-completion service.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ParseError wraps a reply that could not be decoded as the expected JSON shape.
// It is the primary trigger for the fallback generators.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("reply parse failed: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsFallbackTrigger reports whether err should route to a local fallback:
// both service failures and unparseable replies qualify.
func IsFallbackTrigger(err error) bool {
	var ge *GenerationError
	var pe *ParseError
	return errors.As(err, &ge) || errors.As(err, &pe)
}

// HTTPStatus maps a fault to the status code handlers respond with.
// Client faults (bad input, unknown key) are 400; everything else is 500.
func HTTPStatus(err error) int {
	var ve *ValidationError
	var nf *NotFoundError
	if errors.As(err, &ve) || errors.As(err, &nf) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
