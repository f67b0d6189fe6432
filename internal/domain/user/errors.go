package user

import "errors"

var (
	ErrNotFound       = errors.New("user not found")
	ErrNotAffiliate   = errors.New("user is not an affiliate")
	ErrDuplicateEmail = errors.New("email already registered")
)
