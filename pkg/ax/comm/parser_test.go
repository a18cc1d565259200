package comm

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func statusBytes(id DeviceID, status Status, params ...byte) []byte {
	return (&Packet{ID: id, Instruction: Instruction(status), Params: params}).Bytes()
}

func join(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func TestDecode(t *testing.T) {
	frame := statusBytes(3, 0, 0x20, 0x01)
	corrupt := append([]byte(nil), frame...)
	corrupt[len(corrupt)-1]++

	testCases := []struct {
		name   string
		input  []byte
		err    error
		id     DeviceID
		status Status
		params []byte
	}{
		{"no params", statusBytes(1, 0), nil, 1, 0, nil},
		{"params", frame, nil, 3, 0, []byte{0x20, 0x01}},
		{"status", statusBytes(7, 0x20, 9), nil, 7, 0x20, []byte{9}},
		{"params with 0xff", statusBytes(2, 0, 0xff, 0xff), nil, 2, 0, []byte{0xff, 0xff}},
		{"stray byte", join([]byte{0x42}, frame), nil, 3, 0, []byte{0x20, 0x01}},
		{"noise", join([]byte{0x00, 0x13, 0xfe, 0x7f}, frame), nil, 3, 0, []byte{0x20, 0x01}},
		{"broken header", join([]byte{0xff, 0x01}, frame), nil, 3, 0, []byte{0x20, 0x01}},
		{"id 0xff rejected", join([]byte{0xff}, frame), io.EOF, 0, 0, nil},
		{"corrupt checksum", corrupt, ErrChecksum, 0, 0, nil},
		{"corrupt then valid", join(corrupt, frame), ErrChecksum, 0, 0, nil},
		{"bad length", []byte{0xff, 0xff, 1, 1, 0, 0xfd}, ErrBadLength, 0, 0, nil},
		{"truncated", frame[:5], io.EOF, 0, 0, nil},
		{"empty", nil, io.EOF, 0, 0, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := Decode(bytes.NewReader(tc.input))
			if tc.err != nil {
				require.True(t, errors.Is(err, tc.err), "unexpected error %v", err)
				require.Nil(t, resp)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.id, resp.ID)
			require.Equal(t, tc.status, resp.Status)
			if len(tc.params) == 0 {
				require.Empty(t, resp.Params)
			} else {
				require.Equal(t, tc.params, resp.Params)
			}
		})
	}
}

func TestParserRestartsAfterError(t *testing.T) {
	var p Parser
	corrupt := statusBytes(4, 0, 1, 2, 3)
	corrupt[len(corrupt)-1] ^= 0x55
	var errs []error
	var resps []*Response
	for _, b := range join(corrupt, statusBytes(5, 0, 9)) {
		resp, err := p.Parse(b)
		if err != nil {
			errs = append(errs, err)
			require.True(t, p.Idle())
		}
		if resp != nil {
			resps = append(resps, resp)
		}
	}
	require.Equal(t, []error{ErrChecksum}, errs)
	require.Len(t, resps, 1)
	require.Equal(t, DeviceID(5), resps[0].ID)
	require.Equal(t, []byte{9}, resps[0].Params)
	require.True(t, p.Idle())
}

func TestParserLongParams(t *testing.T) {
	params := make([]byte, MaxParams)
	for n := range params {
		params[n] = byte(n)
	}
	resp, err := Decode(bytes.NewReader(statusBytes(9, 0, params...)))
	require.NoError(t, err)
	require.Equal(t, params, resp.Params)
}
