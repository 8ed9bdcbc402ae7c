package fulfillment

import "errors"

// Domain errors for the fulfillment package.
var (
	// ErrInvalidRequest is returned for a request without inputs or with a malformed payload.
	ErrInvalidRequest = errors.New("fulfillment: invalid request")
)
