package comm

import (
	"errors"
	"fmt"
)

var (
	// ErrReadTimeout indicates no byte arrived within the read timeout.
	// The device may be absent; callers decide whether to retry.
	ErrReadTimeout = errors.New("read timeout")
	// ErrChecksum indicates a status packet was framed but failed the
	// integrity check. The packet is discarded.
	ErrChecksum = errors.New("checksum mismatch")
	// ErrBadLength indicates a status packet declared a length below 2.
	ErrBadLength = errors.New("bad packet length")
	// ErrInvalidArgument indicates a malformed call.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrClosed indicates the transport has been closed.
	ErrClosed = errors.New("transport closed")
)

// ConnectionError is returned when a port can't be opened.
type ConnectionError struct {
	Port string
	Err  error
}

// Error implements error.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Port, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// StatusError reports a device answering with a non-zero status.
type StatusError struct {
	ID     DeviceID
	Status Status
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("device %d status 0x%02x", e.ID, byte(e.Status))
}
