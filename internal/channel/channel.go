package channel

import (
	"context"
	"encoding/json"
)

// Handler is the callback signature for inbound events.
//
// Handlers receive the raw JSON payload of the event and are invoked from
// the transport's receive goroutine; they should not block for extended
// periods.
type Handler func(payload json.RawMessage)

// Channel is the abstract bidirectional event channel the sync controller
// publishes to and receives from.
//
// The core assumes nothing about retry, heartbeat or framing: a failed emit
// is dropped, not queued, and connectivity is a plain boolean. Concrete
// transports live in the websocket and mqtt subpackages.
type Channel interface {
	// Connect establishes the session. A failed connect leaves the channel
	// disconnected and has no other side effects; it may be retried.
	Connect(ctx context.Context) error

	// Disconnect tears the session down. Disconnecting an already
	// disconnected channel is a no-op.
	Disconnect() error

	// IsConnected reports the last known connection state.
	IsConnected() bool

	// Emit publishes an event with a JSON-marshalled payload. Returns
	// ErrNotConnected when the channel is down.
	Emit(event string, payload any) error

	// On registers a handler for an inbound event name. Registration must
	// happen before Connect; later registrations are transport-defined.
	On(event string, handler Handler)
}
