// Package websocket reaches a bus exposed by a remote serial bridge over
// a websocket carrying raw bytes in binary frames.
package websocket

import (
	"net"
	"net/url"
	"time"

	"golang.org/x/net/websocket"

	"github.com/robotalks/axpose/pkg/ax/comm"
	"github.com/robotalks/axpose/pkg/ax/comm/stream"
)

// Dial connects to a ws:// or wss:// URL.
func Dial(rawURL string, timeout time.Duration) (*stream.Transport, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &comm.ConnectionError{Port: rawURL, Err: err}
	}
	origin := &url.URL{Scheme: "http", Host: u.Host}
	if u.Scheme == "wss" {
		origin.Scheme = "https"
	}
	config, err := websocket.NewConfig(rawURL, origin.String())
	if err != nil {
		return nil, &comm.ConnectionError{Port: rawURL, Err: err}
	}
	config.Dialer = &net.Dialer{Timeout: timeout}
	conn, err := websocket.DialConfig(config)
	if err != nil {
		return nil, &comm.ConnectionError{Port: rawURL, Err: err}
	}
	conn.PayloadType = websocket.BinaryFrame
	return stream.New(conn, timeout), nil
}
