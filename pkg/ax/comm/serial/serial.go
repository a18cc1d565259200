// Package serial implements comm.Transport on a local serial port.
package serial

import (
	"time"

	bugst "go.bug.st/serial"

	"github.com/robotalks/axpose/pkg/ax/comm"
)

// Port is a serial port Transport.
type Port struct {
	port    bugst.Port
	name    string
	buf     [64]byte
	pending []byte
}

// Open opens the named port with 8N1 framing.
func Open(name string, baudRate int, timeout time.Duration) (*Port, error) {
	port, err := bugst.Open(name, &bugst.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	})
	if err != nil {
		return nil, &comm.ConnectionError{Port: name, Err: err}
	}
	if err = port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, &comm.ConnectionError{Port: name, Err: err}
	}
	return &Port{port: port, name: name}, nil
}

// List returns the names of serial ports present on the system.
func List() ([]string, error) {
	return bugst.GetPortsList()
}

// Name returns the port name.
func (p *Port) Name() string {
	return p.name
}

// Write implements io.Writer.
func (p *Port) Write(data []byte) (int, error) {
	return p.port.Write(data)
}

// ReadByte implements io.ByteReader.
func (p *Port) ReadByte() (byte, error) {
	if len(p.pending) == 0 {
		n, err := p.port.Read(p.buf[:])
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, comm.ErrReadTimeout
		}
		p.pending = p.buf[:n]
	}
	b := p.pending[0]
	p.pending = p.pending[1:]
	return b, nil
}

// FlushInput implements comm.Transport.
func (p *Port) FlushInput() error {
	p.pending = nil
	return p.port.ResetInputBuffer()
}

// Close implements io.Closer.
func (p *Port) Close() error {
	return p.port.Close()
}
