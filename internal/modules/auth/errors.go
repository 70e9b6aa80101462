package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountExists      = errors.New("account already exists")
	ErrValidation         = errors.New("validation error")
	ErrUnauthorized       = errors.New("unauthorized")
)

// DuplicateError names the field that collided with an existing account.
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
