package comm

import (
	"io"
	"time"
)

// Default transport parameters.
const (
	DefaultBaudRate    = 1000000
	DefaultReadTimeout = 500 * time.Millisecond
)

// Transport is a byte stream to the bus.
//
// ReadByte blocks up to the configured read timeout and fails with
// ErrReadTimeout when nothing arrives. FlushInput discards bytes received
// but not yet read, so a late reply to a previous instruction is never
// taken as the reply to the next one.
type Transport interface {
	io.Writer
	io.ByteReader
	io.Closer
	FlushInput() error
}
