package core

// ConnID identifies one live transport stream for its lifetime.
type ConnID string

// EventConn abstracts a system messaging transport endpoint.
// Owned by the adapter; the adapter must Close() it.
type EventConn interface {
	ID() ConnID
	// TrySend is non-blocking; it fails on backpressure or after close.
	TrySend(e Event) error
	Close()
}
