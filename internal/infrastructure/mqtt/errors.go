package mqtt

import "errors"

// Errors returned by the client. The variable bridge and the execution
// recorder only log them; tests match them with errors.Is.
var (
	ErrNotConnected      = errors.New("mqtt: broker connection is down")
	ErrConnectionFailed  = errors.New("mqtt: could not reach broker")
	ErrPublishFailed     = errors.New("mqtt: publish not acknowledged")
	ErrSubscribeFailed   = errors.New("mqtt: subscribe not acknowledged")
	ErrUnsubscribeFailed = errors.New("mqtt: unsubscribe not acknowledged")
	ErrInvalidQoS        = errors.New("mqtt: qos must be 0, 1 or 2")
	ErrInvalidTopic      = errors.New("mqtt: empty topic")

	// ErrWildcardTopic rejects a publish whose topic contains + or #.
	// Variable ids end up in command topics, so an id like "hall/#" would
	// otherwise reach the broker.
	ErrWildcardTopic = errors.New("mqtt: wildcard in publish topic")

	// ErrPayloadTooLarge rejects payloads above maxPayloadSize.
	ErrPayloadTooLarge = errors.New("mqtt: payload too large")
)
