package comm

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPacket(t *testing.T) {
	testCases := []struct {
		name   string
		packet Packet
		expect []byte
	}{
		{"ping", Packet{ID: 1, Instruction: Ping}, []byte{0xff, 0xff, 1, 2, 1, 0xfb}},
		{"read", Packet{ID: 1, Instruction: ReadData, Params: []byte{0x2b, 1}}, []byte{0xff, 0xff, 1, 4, 2, 0x2b, 1, 0xcc}},
		{"write", Packet{ID: 0xfe, Instruction: WriteData, Params: []byte{3, 1}}, []byte{0xff, 0xff, 0xfe, 4, 3, 3, 1, 0xf6}},
		{"controller", Packet{ID: ControllerID, Instruction: PlaySequence}, []byte{0xff, 0xff, 0xfd, 2, 10, 0xf6}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, tc.packet.Bytes())
			var buf bytes.Buffer
			n, err := tc.packet.WriteTo(&buf)
			require.NoError(t, err)
			require.Equal(t, tc.expect, buf.Bytes())
			require.EqualValues(t, len(tc.expect), n)
		})
	}
}

func TestPacketValidate(t *testing.T) {
	require.NoError(t, (&Packet{ID: 1, Params: make([]byte, MaxParams)}).Validate())
	err := (&Packet{ID: 1, Params: make([]byte, MaxParams+1)}).Validate()
	require.True(t, errors.Is(err, ErrInvalidArgument))
	err = (&Packet{ID: 0xff}).Validate()
	require.True(t, errors.Is(err, ErrInvalidArgument))
}

func randomPacket(rnd *rand.Rand) *Packet {
	params := make([]byte, rnd.Intn(40))
	rnd.Read(params)
	return &Packet{
		ID:          DeviceID(rnd.Intn(254)),
		Instruction: Instruction(rnd.Intn(256)),
		Params:      params,
	}
}

func TestChecksumInvariant(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		b := randomPacket(rnd).Bytes()
		var sum int
		for _, v := range b[2:] {
			sum += int(v)
		}
		require.Equal(t, 255, sum%256, "packet % x", b)
	}
}

func TestRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 500; i++ {
		pkt := randomPacket(rnd)
		resp, err := Decode(bytes.NewReader(pkt.Bytes()))
		require.NoError(t, err)
		require.Equal(t, pkt.ID, resp.ID)
		// the instruction occupies the status position.
		require.Equal(t, Status(pkt.Instruction), resp.Status)
		if len(pkt.Params) == 0 {
			require.Empty(t, resp.Params)
		} else {
			require.Equal(t, pkt.Params, resp.Params)
		}
	}
}

func TestSyncWritePacket(t *testing.T) {
	t.Run("single value rows", func(t *testing.T) {
		rows := [][]byte{{1, 0x10}, {2, 0x20}, {3, 0x30}}
		pkt, err := NewSyncWritePacket(0x18, rows)
		require.NoError(t, err)
		b := pkt.Bytes()
		require.Equal(t, []byte{0xff, 0xff, 0xfe, 10, 0x83, 0x18, 1}, b[:7])
		require.Equal(t, []byte{1, 0x10, 2, 0x20, 3, 0x30}, b[7:13])
		valsum := 1 + 0x10 + 2 + 0x20 + 3 + 0x30
		expect := 255 - ((254 + 10 + 0x83 + 0x18 + 1 + valsum) % 256)
		require.Equal(t, byte(expect), b[13])
		require.Len(t, b, 14)
	})

	t.Run("two value rows", func(t *testing.T) {
		rows := [][]byte{{1, 0x00, 0x02}, {2, 0xff, 0x01}, {3, 0x20, 0x03}}
		pkt, err := NewSyncWritePacket(0x1e, rows)
		require.NoError(t, err)
		b := pkt.Bytes()
		require.EqualValues(t, 4+9, b[3])
		require.EqualValues(t, 2, b[6])
		var valsum int
		for _, row := range rows {
			for _, v := range row {
				valsum += int(v)
			}
		}
		expect := 255 - ((254 + 13 + 0x83 + 0x1e + 2 + valsum) % 256)
		require.Equal(t, byte(expect), b[len(b)-1])
	})

	t.Run("invalid", func(t *testing.T) {
		for _, rows := range [][][]byte{
			nil,
			{},
			{{1, 2}, {2, 3, 4}},
			{{1}, {2}},
		} {
			_, err := NewSyncWritePacket(0x1e, rows)
			require.True(t, errors.Is(err, ErrInvalidArgument), "rows %v", rows)
		}
	})
}
