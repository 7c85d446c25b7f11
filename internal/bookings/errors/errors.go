package errors

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrInvalidID       = errors.New("invalid booking id")
	ErrBedLocked       = errors.New("bed lock already held")
)
