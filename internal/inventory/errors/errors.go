package errors

import "errors"

var (
	ErrRoomNotFound = errors.New("room not found")

	ErrBedNotFound = errors.New("bed not found")

	ErrDuplicateRoom = errors.New("room number already exists")

	ErrDuplicateBed = errors.New("bed number already exists in room")
)
