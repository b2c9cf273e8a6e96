package common

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that an addressed record does not exist. Handlers map
// it to 404.
var ErrNotFound = errors.New("not found")

// ValidationError is malformed input detected before any mutation. Handlers
// map it to 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
