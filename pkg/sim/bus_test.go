package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/axpose/pkg/ax/comm"
)

func TestBusRegisters(t *testing.T) {
	bus := New(3)
	c := comm.NewClient(bus)
	bus.Device(2).SetWord(0x24, 0x1ff)

	require.Equal(t, []comm.DeviceID{1, 2, 3}, c.Scan(1, 6))
	require.Equal(t, []byte{0xff, 0x01}, c.GetRegisters(2, 0x24, 2))
	require.Equal(t, comm.RegisterReadFailed, c.GetRegister(9, 0x24))

	status, err := c.SetRegister(3, 0x1e, 0x00, 0x02)
	require.NoError(t, err)
	require.True(t, status.OK())
	require.Equal(t, uint16(0x200), bus.Device(3).Word(0x1e))

	bus.Device(1).Status = 0x20
	status, err = c.SetRegister(1, 0x18, 1)
	require.NoError(t, err)
	require.Equal(t, comm.Status(0x20), status)

	resp, err := c.Execute(2, comm.Instruction(0x55), nil)
	require.NoError(t, err)
	require.Equal(t, StatusInstructionError, resp.Status&StatusInstructionError)
}

func TestBusSyncWrite(t *testing.T) {
	bus := New(3)
	c := comm.NewClient(bus)
	err := c.SyncWrite(0x1e, [][]byte{
		{1, 0x10, 0x01},
		{3, 0x30, 0x03},
		{7, 0x70, 0x07},
	})
	require.NoError(t, err)
	require.Equal(t, uint16(0x110), bus.Device(1).Word(0x1e))
	require.Equal(t, uint16(0), bus.Device(2).Word(0x1e))
	require.Equal(t, uint16(0x330), bus.Device(3).Word(0x1e))
}

func TestBusFaults(t *testing.T) {
	bus := New(2)
	c := comm.NewClient(bus)

	bus.CorruptNextReply()
	_, err := c.Ping(1)
	require.True(t, errors.Is(err, comm.ErrChecksum))
	_, err = c.Ping(1)
	require.NoError(t, err)

	bus.NoiseBeforeNextReply(0x00, 0xff, 0x12)
	_, err = c.Ping(2)
	require.NoError(t, err)

	bus.Silence(2, true)
	_, err = c.Ping(2)
	require.True(t, errors.Is(err, comm.ErrReadTimeout))

	bus.Inject(0xff, 0xff, 2, 2, 0, 0xfb)
	bus.Silence(2, false)
	_, err = c.Ping(2)
	require.NoError(t, err)

	require.NoError(t, c.Close())
	_, err = c.Ping(1)
	require.True(t, errors.Is(err, comm.ErrClosed))
}

func TestBoard(t *testing.T) {
	bus := New(0)
	c := comm.NewClient(bus)
	steps := []struct {
		ins    comm.Instruction
		params []byte
	}{
		{comm.SetPoseSize, []byte{2}},
		{comm.LoadPose, []byte{0, 0x00, 0x02, 0xff, 0x01}},
		{comm.LoadSequence, []byte{0, 0xf4, 0x01, 0, 0x2c, 0x01, 0xff, 0, 0}},
		{comm.LoopSequence, nil},
	}
	for _, s := range steps {
		resp, err := c.Execute(comm.ControllerID, s.ins, s.params)
		require.NoError(t, err)
		require.True(t, resp.Status.OK(), "%s", s.ins)
	}
	pose, ok := bus.Board.Pose(0)
	require.True(t, ok)
	require.Equal(t, []uint16{0x200, 0x1ff}, pose)
	require.Equal(t, []Step{{0, 500}, {0, 300}}, bus.Board.Sequence())
	require.Equal(t, Looping, bus.Board.State())

	require.NoError(t, c.WriteRaw(comm.HaltByte))
	require.Equal(t, Stopped, bus.Board.State())
	require.Equal(t, 1, bus.Board.Halts())

	resp, err := c.Execute(comm.ControllerID, comm.LoadPose, []byte{1, 0})
	require.NoError(t, err)
	require.Equal(t, StatusInstructionError, resp.Status)
}

func TestBoardSelfTest(t *testing.T) {
	bus := New(0)
	c := comm.NewClient(bus)
	status, err := c.SelfTest()
	require.NoError(t, err)
	require.True(t, status.OK())
	require.Equal(t, 1, bus.Board.Tests())
	require.Equal(t, comm.Status(0), c.LastStatus())

	bus.Board.SetFault(0x02)
	status, err = c.SelfTest()
	require.NoError(t, err)
	require.Equal(t, comm.Status(0x02), status)
	require.Equal(t, comm.Status(0x02), c.LastStatus())
	require.Equal(t, 1, bus.Board.Tests())
}
