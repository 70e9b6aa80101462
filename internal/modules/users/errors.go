package users

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrForbidden     = errors.New("forbidden")
	ErrSelfDelete    = errors.New("cannot delete your own account")
	ErrInvalidRole   = errors.New("invalid role")
	ErrValidation    = errors.New("validation error")
	ErrAccountExists = errors.New("account already exists")
)

type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string { return e.Field + " already in use" }

func (e *DuplicateError) Is(target error) bool { return target == ErrAccountExists }

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "invalid account data" }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
