package admin

import "errors"

var (
	// ErrUserNotFound is returned when the target user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidRate is returned when a commission rate is outside [0,1]
	ErrInvalidRate = errors.New("commission rate must be between 0 and 1")
)
