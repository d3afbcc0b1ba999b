package entity

import (
	"errors"
	"fmt"
)

// Pipeline failures. Match them with errors.Is; the wrapping error carries the detail.
var (
	ErrParse     = errors.New("document could not be parsed")
	ErrEmptyText = errors.New("no text could be extracted from the document")
	ErrModel     = errors.New("summarization model failed")

	// ErrInvalidInput is matched by every *ValidationError.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError rejects an upload before any parsing happens. Message is safe to
// show to the client as is.
type ValidationError struct {
	Field   string
	Message string
}

func invalidField(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
