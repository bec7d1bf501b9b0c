package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is the parent of every lookup miss.
var ErrNotFound = errors.New("not found")

// Domain errors
var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)

	ErrTicketNotFound        = fmt.Errorf("ticket %w", ErrNotFound)
	ErrTicketIndexOutOfRange = errors.New("ticket index out of range")
	ErrInvalidPrice          = errors.New("price must be greater than zero")
	ErrInvalidQuantity       = errors.New("group size must be a positive integer")
)

// Field validation errors, wrapped by ValidationError.
var (
	ErrFieldRequired      = errors.New("field is required")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidPhone       = errors.New("invalid phone number format")
	ErrInvalidDateOfBirth = errors.New("invalid date of birth format, use YYYY-MM-DD")
)

// ValidationError names the field that failed and why.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}
