package channel

import "errors"

// Domain-specific errors for channel transports.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotConnected is returned when emitting on a disconnected channel.
	ErrNotConnected = errors.New("channel: not connected")

	// ErrConnectionFailed is returned when a connect attempt fails. The
	// channel remains disconnected and may be retried.
	ErrConnectionFailed = errors.New("channel: connection failed")

	// ErrEmitFailed is returned when an emit is accepted by the transport
	// but cannot be delivered.
	ErrEmitFailed = errors.New("channel: emit failed")

	// ErrInvalidEvent is returned when an empty event name is used.
	ErrInvalidEvent = errors.New("channel: event name cannot be empty")
)
