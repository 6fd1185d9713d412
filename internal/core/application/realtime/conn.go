package realtime

import (
	"errors"

	"shopfloor/internal/core/domain/model/kernel"
)

// ErrConnClosed is returned by Send once a connection is shut down.
var ErrConnClosed = errors.New("connection closed")

// Conn is one live client connection as seen by the core.
type Conn interface {
	// ID is the transport-assigned connection identifier.
	ID() kernel.UUID

	// Send queues an event for delivery. It never blocks; a connection that
	// cannot keep up is closed by the transport and reports an error.
	Send(event string, data any) error

	// Alive reports whether the transport still considers the peer reachable.
	Alive() bool

	// Close releases the transport. It is safe to call more than once.
	Close()
}
