package usecase

import (
	"errors"
	"fmt"
)

// HTTPError is a usecase failure that already knows its HTTP status.
// Details is rendered next to the message.
type HTTPError struct {
	Status  int
	Message string
	Details map[string]any
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// NewValidationError is a 400 with messages listed under field.
func NewValidationError(field string, messages ...string) error {
	return &HTTPError{
		Status:  400,
		Message: "validation error",
		Details: map[string]any{field: messages},
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
