package env

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/axpose/pkg/ax/comm"
	"github.com/robotalks/axpose/pkg/sim"
)

func TestOpenTransportSim(t *testing.T) {
	tr, err := OpenTransport("sim://3", comm.DefaultBaudRate, time.Second)
	require.NoError(t, err)
	require.IsType(t, &sim.Bus{}, tr)
	c := comm.NewClient(tr)
	require.Equal(t, []comm.DeviceID{1, 2, 3}, c.Scan(1, 5))
}

func TestOpenTransportTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			conn.Close()
		}
	}()
	tr, err := OpenTransport("tcp://"+ln.Addr().String(), comm.DefaultBaudRate, time.Second)
	require.NoError(t, err)
	require.NoError(t, tr.Close())
}

func TestOpenTransportErrors(t *testing.T) {
	for _, port := range []string{"sim://x", "sim://300", "bogus://a", "tcp://127.0.0.1:1"} {
		_, err := OpenTransport(port, comm.DefaultBaudRate, 100*time.Millisecond)
		var connErr *comm.ConnectionError
		require.True(t, errors.As(err, &connErr), port)
		require.NotEmpty(t, connErr.Port)
	}
}

func TestNewConfig(t *testing.T) {
	conf := NewConfig()
	conf.Port = "sim://2"
	require.NotEqual(t, conf.Port, Default().Port)
	c, err := conf.Open()
	require.NoError(t, err)
	defer c.Close()
	_, err = c.Ping(2)
	require.NoError(t, err)
	require.NotEmpty(t, MachineID())
}
