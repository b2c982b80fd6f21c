package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("authorization token missing or invalid")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrProductNotFound    = errors.New("product not found")
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("access forbidden")
)

// ValidationError carries a client-facing message for a rejected input.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Message string
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ForbiddenError reports that a user's role does not permit an action.
// It matches ErrForbidden under errors.Is.
type ForbiddenError struct {
	Username string
	Role     Role
	Action   string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s with %s role not authorized to %s", e.Username, e.Role, e.Action)
}

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }
