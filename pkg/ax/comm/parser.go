package comm

import "io"

// Parser decodes status packets one byte at a time.
// The zero value is ready to search for a packet header.
type Parser struct {
	state  parseState
	resp   Response
	length byte
	sum    byte
}

type parseState int

const (
	stateHeader1  parseState = iota // seeking first 0xff
	stateHeader2                    // seeking second 0xff
	stateID                         // waiting for device id
	stateLength                     // waiting for length
	stateError                      // waiting for error/status byte
	stateParams                     // accumulating length-2 params
	stateChecksum                   // waiting for checksum
)

// Reset drops any partial packet and seeks a new header.
func (p *Parser) Reset() {
	p.state, p.resp, p.length, p.sum = stateHeader1, Response{}, 0, 0
}

// Idle tells if the parser is between packets.
func (p *Parser) Idle() bool {
	return p.state == stateHeader1
}

// Parse consumes one byte. It returns a Response when the byte completes a
// valid packet, ErrChecksum or ErrBadLength when the byte completes an
// invalid one, and nil, nil when more bytes are needed. After an error the
// partial packet is discarded and the parser seeks a new header.
func (p *Parser) Parse(b byte) (*Response, error) {
	switch p.state {
	case stateHeader1:
		if b == header {
			p.state = stateHeader2
		}
	case stateHeader2:
		if b == header {
			p.state = stateID
		} else {
			p.state = stateHeader1
		}
	case stateID:
		if b == header {
			p.state = stateHeader1
			return nil, nil
		}
		p.resp = Response{ID: DeviceID(b)}
		p.sum = b
		p.state = stateLength
	case stateLength:
		if b < 2 {
			p.Reset()
			return nil, ErrBadLength
		}
		p.length = b
		p.sum += b
		p.state = stateError
	case stateError:
		p.resp.Status = Status(b)
		p.sum += b
		if p.length == 2 {
			p.state = stateChecksum
		} else {
			p.resp.Params = make([]byte, 0, p.length-2)
			p.state = stateParams
		}
	case stateParams:
		p.resp.Params = append(p.resp.Params, b)
		p.sum += b
		if len(p.resp.Params) == int(p.length)-2 {
			p.state = stateChecksum
		}
	case stateChecksum:
		ok := p.sum+b == 0xff
		resp := p.resp
		p.Reset()
		if !ok {
			return nil, ErrChecksum
		}
		return &resp, nil
	}
	return nil, nil
}

// Decode reads bytes until a complete status packet is parsed.
// It fails with the reader's error (ErrReadTimeout for a Transport) or
// with the first packet error; it never resumes after a bad packet.
func Decode(r io.ByteReader) (*Response, error) {
	var p Parser
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		resp, err := p.Parse(b)
		if err != nil || resp != nil {
			return resp, err
		}
	}
}
