package configstore

import "errors"

// Domain errors for the configstore package.
var (
	// ErrPropertyNotFound is returned when reading a property that was never registered or set.
	ErrPropertyNotFound = errors.New("configstore: property not found")

	// ErrInvalidKey is returned for an empty owner or key.
	ErrInvalidKey = errors.New("configstore: invalid owner or key")
)
