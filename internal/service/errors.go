package service

import (
	"errors"
	"fmt"
)

// Service errors map one-to-one onto the HTTP taxonomy: NotFound, Conflict,
// Unauthorized, Forbidden. Validation failures carry the offending field.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("operation restricted to the owner")

	ErrSelfSubscribe = fmt.Errorf("%w: cannot subscribe to yourself", ErrConflict)
)

// ValidationError is a field-scoped validation failure surfaced verbatim to
// the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
