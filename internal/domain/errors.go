package domain

import "errors"

// Error kinds surfaced to callers. Concrete errors wrap one of these with
// fmt.Errorf("%w: ...") so that callers can match them with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrIllegalState = errors.New("illegal state")
	ErrOwnership    = errors.New("permission denied")

	// ErrDuplicateToken is returned by stores when a generated token collides
	// with an existing one.
	ErrDuplicateToken = errors.New("duplicate token")
)
