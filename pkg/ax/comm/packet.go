package comm

import (
	"fmt"
	"io"
)

const header byte = 0xff

// MaxParams is the most parameters a packet can carry: the length byte
// counts the parameters plus two.
const MaxParams = 253

// Packet is an instruction packet sent to a device.
type Packet struct {
	ID          DeviceID
	Instruction Instruction
	Params      []byte
}

// Response is a status packet received from a device.
type Response struct {
	ID     DeviceID
	Status Status
	Params []byte
}

// Checksum computes the checksum byte over the fields following the header.
func Checksum(fields ...byte) byte {
	var sum byte
	for _, b := range fields {
		sum += b
	}
	return ^sum
}

// Validate checks the packet fits in the frame.
func (p *Packet) Validate() error {
	if len(p.Params) > MaxParams {
		return fmt.Errorf("%d params exceed %d: %w", len(p.Params), MaxParams, ErrInvalidArgument)
	}
	if byte(p.ID) == header {
		return fmt.Errorf("device id 0x%02x: %w", byte(p.ID), ErrInvalidArgument)
	}
	return nil
}

// Bytes returns encoded bytes for sending.
func (p *Packet) Bytes() []byte {
	b := make([]byte, len(p.Params)+6)
	b[0], b[1] = header, header
	b[2], b[3], b[4] = byte(p.ID), byte(len(p.Params)+2), byte(p.Instruction)
	copy(b[5:], p.Params)
	b[len(b)-1] = Checksum(b[2 : len(b)-1]...)
	return b
}

// WriteTo writes encoded bytes.
func (p *Packet) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(p.Bytes())
	return int64(n), err
}

// NewSyncWritePacket builds a broadcast packet writing the same register
// block on several devices. Each row is the device id followed by its
// values and all rows must carry the same number of values.
func NewSyncWritePacket(start byte, rows [][]byte) (*Packet, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("sync write without rows: %w", ErrInvalidArgument)
	}
	width := len(rows[0])
	if width < 2 {
		return nil, fmt.Errorf("sync write row without values: %w", ErrInvalidArgument)
	}
	params := make([]byte, 2, 2+width*len(rows))
	params[0], params[1] = start, byte(width-1)
	for n, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("sync write row %d has %d values, expect %d: %w",
				n, len(row)-1, width-1, ErrInvalidArgument)
		}
		params = append(params, row...)
	}
	pkt := &Packet{ID: BroadcastID, Instruction: SyncWrite, Params: params}
	if err := pkt.Validate(); err != nil {
		return nil, err
	}
	return pkt, nil
}
