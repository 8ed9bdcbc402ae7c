package variable

import "errors"

// Domain errors for the variable package.
var (
	// ErrNotFound is returned when a variable id does not exist.
	ErrNotFound = errors.New("variable: not found")

	// ErrTypeMismatch is returned when a value cannot be stored in a variable of the given kind.
	ErrTypeMismatch = errors.New("variable: type mismatch")

	// ErrInvalidKind is returned for a kind other than bool, int, float or string.
	ErrInvalidKind = errors.New("variable: invalid kind")

	// ErrInvalidID is returned for an empty variable id.
	ErrInvalidID = errors.New("variable: invalid id")
)
