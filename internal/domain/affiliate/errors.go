package affiliate

import "errors"

var (
	// ErrNotAffiliate is returned when the user has no affiliate account
	ErrNotAffiliate = errors.New("user is not an affiliate")
)
