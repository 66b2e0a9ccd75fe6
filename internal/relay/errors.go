package relay

import "errors"

// Relay client errors.
var (
	// ErrNoEventsFound is returned when a single-event request matched
	// nothing before end-of-stored-events.
	ErrNoEventsFound = errors.New("no events found")

	// ErrNotOnlyOneEventFound is returned when a single-event request
	// matched more than one distinct event.
	ErrNotOnlyOneEventFound = errors.New("more than one event found")

	// ErrMissingSigner is returned when a publishing operation is
	// attempted on a client constructed without a signer.
	ErrMissingSigner = errors.New("client has no signer")

	// ErrRejected is returned when the relay refuses a published event.
	ErrRejected = errors.New("event rejected by relay")

	// ErrClosed is returned when an operation is attempted on a closed
	// transport.
	ErrClosed = errors.New("transport closed")
)
