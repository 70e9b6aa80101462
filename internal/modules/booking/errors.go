package booking

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrInvalidStatus    = errors.New("invalid status value")
	ErrPlaceNotFound    = errors.New("place not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrForbidden        = errors.New("forbidden")
)

// CapacityError carries the place's capacity. It matches ErrCapacityExceeded.
type CapacityError struct {
	Max int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("Number of people exceeds maximum capacity of %d.", e.Max)
}

func (e *CapacityError) Is(target error) bool { return target == ErrCapacityExceeded }
