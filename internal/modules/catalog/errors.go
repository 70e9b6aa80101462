package catalog

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrPlaceNotFound   = errors.New("place not found")
	ErrInvalidCategory = errors.New("invalid category")
)

// ValidationError lists the offending fields. It matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "invalid place" }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
