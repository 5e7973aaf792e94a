package store

import "errors"

var (
	// ErrRoomNotFound is returned when no live room matches the lookup.
	ErrRoomNotFound = errors.New("room not found")

	// ErrCodeTaken is returned by CreateRoom when a live room already holds
	// the code. Callers draw a fresh code and retry.
	ErrCodeTaken = errors.New("room code taken")

	// ErrContentNotFound is returned when no content matches the lookup, or
	// when the item exists but is not owned by the supplied room.
	ErrContentNotFound = errors.New("content not found")
)
