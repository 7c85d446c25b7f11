package errors

import "errors"

var (
	ErrTaskNotFound = errors.New("housekeeping task not found")
	ErrInvalidID    = errors.New("invalid task id")
)
