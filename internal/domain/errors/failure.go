package errors

import (
	"fmt"
	"net/http"

	"greenhood/internal/errors"
)

// ErrPoolExhausted is returned when no pooled session became free within the acquire timeout.
var ErrPoolExhausted = errors.New("connection pool exhausted")

// ValidationFailure is a business-rule rejection meant to be shown to the user.
// Key is a localization key; Args fill its placeholders.
type ValidationFailure struct {
	Key  string
	Args []any
}

// NewValidationFailure creates a rejection for the given localization key.
func NewValidationFailure(key string, args ...any) *ValidationFailure {
	return &ValidationFailure{Key: key, Args: args}
}

// Error implements the error interface
func (f *ValidationFailure) Error() string {
	if len(f.Args) == 0 {
		return "validation failure: " + f.Key
	}

	return fmt.Sprintf("validation failure: %s %v", f.Key, f.Args)
}

// HTTPCode returns the HTTP status code
func (f *ValidationFailure) HTTPCode() int {
	return http.StatusBadRequest
}

// ErrorCode returns the business error code
func (f *ValidationFailure) ErrorCode() string {
	return ErrValidationFailed.ErrorCode()
}

// Message returns the localization key of the failure
func (f *ValidationFailure) Message() string {
	return f.Key
}

// Details returns detailed error information
func (f *ValidationFailure) Details() string {
	if len(f.Args) == 0 {
		return ""
	}

	return fmt.Sprint(f.Args...)
}

// IsValidationFailure reports whether err carries a ValidationFailure, returning it.
func IsValidationFailure(err error) (*ValidationFailure, bool) {
	return errors.AsType[*ValidationFailure](err)
}
