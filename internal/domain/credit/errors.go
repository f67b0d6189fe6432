package credit

import "errors"

var (
	// ErrInsufficientCredits is returned when the balance cannot cover a spend
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrInvalidAmount is returned when amount is <= 0
	ErrInvalidAmount = errors.New("invalid amount: must be greater than 0")

	// ErrUserNotFound is returned when the user row does not exist
	ErrUserNotFound = errors.New("user not found")

	ErrInternal = errors.New("internal error")
)
