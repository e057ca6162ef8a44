package domain

import "errors"

// ErrDuplicateEmail indicates the email is already on the waitlist.
var ErrDuplicateEmail = errors.New("email already registered")

// ErrRateLimited indicates the source address exceeded the signup quota.
var ErrRateLimited = errors.New("too many signup attempts")

// ValidationError describes a structurally or semantically invalid request.
// Its message is safe to echo back to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with the given caller-visible message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
