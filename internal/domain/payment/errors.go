package payment

import "errors"

var (
	// ErrChargeNotFound is returned when the charge does not exist
	ErrChargeNotFound = errors.New("charge not found")

	// ErrUnknownPackage is returned when the credit amount is not in the catalog
	ErrUnknownPackage = errors.New("unknown credit package")

	// ErrNotOwner is returned when a user queries someone else's charge
	ErrNotOwner = errors.New("charge belongs to another user")
)
