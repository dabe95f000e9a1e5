// Package errs holds the error taxonomy shared by the stores, the
// authentication flow and the HTTP boundary.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: resource absent, or hidden because the requester does not own it.
	ErrNotFound = errors.New("not found")
	// ErrConflict: uniqueness violation.
	ErrConflict = errors.New("already exists")
	// ErrForbidden: ownership check failed and the resource's existence is disclosed.
	ErrForbidden = errors.New("forbidden")

	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInvalidToken       = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is inactive")
)

// ValidationError reports a malformed input field.
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

// Invalid builds a *ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
