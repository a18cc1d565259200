package websocket

import (
	"bufio"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/robotalks/axpose/pkg/ax/comm"
)

func TestDial(t *testing.T) {
	srv := httptest.NewServer(websocket.Handler(func(conn *websocket.Conn) {
		conn.PayloadType = websocket.BinaryFrame
		r := bufio.NewReader(conn)
		for {
			req, err := comm.Decode(r)
			if err != nil {
				return
			}
			reply := &comm.Packet{ID: req.ID}
			if _, err := conn.Write(reply.Bytes()); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	tr, err := Dial("ws"+strings.TrimPrefix(srv.URL, "http"), time.Second)
	require.NoError(t, err)
	c := comm.NewClient(tr)
	defer c.Close()
	status, err := c.Ping(3)
	require.NoError(t, err)
	require.True(t, status.OK())
}

func TestDialFailure(t *testing.T) {
	_, err := Dial("ws://127.0.0.1:1/bus", 100*time.Millisecond)
	var connErr *comm.ConnectionError
	require.True(t, errors.As(err, &connErr))
}
