// Package stream implements comm.Transport on a network connection,
// e.g. a serial-to-TCP bridge such as ser2net.
package stream

import (
	"bufio"
	"errors"
	"io"
	"net"
	"time"

	"github.com/robotalks/axpose/pkg/ax/comm"
)

// DefaultFlushWindow is how long FlushInput keeps draining the connection.
const DefaultFlushWindow = 2 * time.Millisecond

// Transport wraps a net.Conn.
type Transport struct {
	Conn        net.Conn
	Timeout     time.Duration
	FlushWindow time.Duration

	reader *bufio.Reader
}

// New wraps conn; reads time out after timeout.
func New(conn net.Conn, timeout time.Duration) *Transport {
	return &Transport{
		Conn:        conn,
		Timeout:     timeout,
		FlushWindow: DefaultFlushWindow,
		reader:      bufio.NewReader(conn),
	}
}

// Dial connects to a TCP address.
func Dial(addr string, timeout time.Duration) (*Transport, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, &comm.ConnectionError{Port: addr, Err: err}
	}
	return New(conn, timeout), nil
}

// Write implements io.Writer.
func (t *Transport) Write(p []byte) (int, error) {
	if err := t.Conn.SetWriteDeadline(time.Now().Add(t.Timeout)); err != nil {
		return 0, mapErr(err)
	}
	n, err := t.Conn.Write(p)
	return n, mapErr(err)
}

// ReadByte implements io.ByteReader.
func (t *Transport) ReadByte() (byte, error) {
	if t.reader.Buffered() == 0 {
		if err := t.Conn.SetReadDeadline(time.Now().Add(t.Timeout)); err != nil {
			return 0, mapErr(err)
		}
	}
	b, err := t.reader.ReadByte()
	return b, mapErr(err)
}

// FlushInput implements comm.Transport.
func (t *Transport) FlushInput() error {
	if _, err := t.reader.Discard(t.reader.Buffered()); err != nil {
		return err
	}
	if err := t.Conn.SetReadDeadline(time.Now().Add(t.FlushWindow)); err != nil {
		return mapErr(err)
	}
	var buf [256]byte
	for {
		if _, err := t.Conn.Read(buf[:]); err != nil {
			if err = mapErr(err); err == comm.ErrReadTimeout {
				return nil
			}
			return err
		}
	}
}

// Close implements io.Closer.
func (t *Transport) Close() error {
	return t.Conn.Close()
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return comm.ErrReadTimeout
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return comm.ErrClosed
	}
	return err
}
