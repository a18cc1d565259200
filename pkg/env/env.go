// Package env provides common configuration for commands talking to a bus.
package env

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"

	"github.com/robotalks/axpose/pkg/ax/comm"
	"github.com/robotalks/axpose/pkg/ax/comm/serial"
	"github.com/robotalks/axpose/pkg/ax/comm/stream"
	"github.com/robotalks/axpose/pkg/ax/comm/websocket"
	"github.com/robotalks/axpose/pkg/sim"
)

// Config provides options to open a bus and expose it.
type Config struct {
	// Port is a serial device path or a URL:
	// serial:///dev/ttyUSB0, tcp://host:port, ws://host/path, sim://count
	Port     string
	BaudRate int
	Timeout  time.Duration
	// PoseSize is the number of actuators in a pose.
	PoseSize int
	// TorqueRegister is written with 0 to relax actuators.
	TorqueRegister int
	// PositionRegister is the first of the register pair read to
	// capture a pose.
	PositionRegister int

	// MQTTURL specifies the broker and topic prefix of the bridge,
	// e.g. mqtt://host:port/topic-prefix
	MQTTURL string
	// BridgeID identifies this host under the topic prefix.
	BridgeID string
	// MetricsAddr is the listen address of the metrics endpoint.
	MetricsAddr string
	// Library is an optional motion library file.
	Library string
}

var defaultConfig = Config{
	Port:             "/dev/ttyUSB0",
	BaudRate:         comm.DefaultBaudRate,
	Timeout:          comm.DefaultReadTimeout,
	PoseSize:         18,
	TorqueRegister:   24,
	PositionRegister: 36,
	MQTTURL:          "mqtt://localhost:1883/axpose/",
	MetricsAddr:      ":9109",
}

func init() {
	if val := os.Getenv("AX_PORT"); val != "" {
		defaultConfig.Port = val
	}
	if val := os.Getenv("AX_BAUD"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			defaultConfig.BaudRate = n
		}
	}
	if val := os.Getenv("AX_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			defaultConfig.Timeout = d
		}
	}
	if val := os.Getenv("AX_POSE_SIZE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			defaultConfig.PoseSize = n
		}
	}
	if val := os.Getenv("AX_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
	if val := os.Getenv("AX_METRICS_ADDR"); val != "" {
		defaultConfig.MetricsAddr = val
	}
	defaultConfig.Library = os.Getenv("AX_LIBRARY")
	defaultConfig.BridgeID = MachineID()
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Port, "port", defaultConfig.Port, "Serial port or bus URL.")
	flag.IntVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Baud rate of serial port.")
	flag.DurationVar(&defaultConfig.Timeout, "timeout", defaultConfig.Timeout, "Read timeout.")
	flag.IntVar(&defaultConfig.PoseSize, "pose-size", defaultConfig.PoseSize, "Number of actuators in a pose.")
	flag.IntVar(&defaultConfig.TorqueRegister, "torque-reg", defaultConfig.TorqueRegister, "Register written with 0 to relax actuators.")
	flag.IntVar(&defaultConfig.PositionRegister, "position-reg", defaultConfig.PositionRegister, "First register of the present position pair.")
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "MQTT broker URL.")
	flag.StringVar(&defaultConfig.BridgeID, "bridge-id", defaultConfig.BridgeID, "Bridge ID under the topic prefix.")
	flag.StringVar(&defaultConfig.MetricsAddr, "metrics", defaultConfig.MetricsAddr, "Metrics listen address, empty to disable.")
	flag.StringVar(&defaultConfig.Library, "library", defaultConfig.Library, "Motion library file.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Open opens the configured port and creates a client.
func (c *Config) Open() (*comm.Client, error) {
	t, err := OpenTransport(c.Port, c.BaudRate, c.Timeout)
	if err != nil {
		return nil, err
	}
	glog.Infof("opened %s", c.Port)
	return comm.NewClient(t), nil
}

// OpenTransport opens a port by path or URL.
func OpenTransport(port string, baudRate int, timeout time.Duration) (comm.Transport, error) {
	if !strings.Contains(port, "://") {
		return serial.Open(port, baudRate, timeout)
	}
	u, err := url.Parse(port)
	if err != nil {
		return nil, &comm.ConnectionError{Port: port, Err: err}
	}
	switch u.Scheme {
	case "serial":
		return serial.Open(u.Path, baudRate, timeout)
	case "tcp":
		return stream.Dial(u.Host, timeout)
	case "ws", "wss":
		return websocket.Dial(port, timeout)
	case "sim":
		count, err := strconv.Atoi(u.Host)
		if err != nil || count < 0 || count > int(comm.MaxActuatorID) {
			return nil, &comm.ConnectionError{Port: port, Err: fmt.Errorf("invalid actuator count %q", u.Host)}
		}
		return sim.New(count), nil
	default:
		return nil, &comm.ConnectionError{Port: port, Err: fmt.Errorf("unknown scheme %q", u.Scheme)}
	}
}

// MachineID retrieves the unique ID identifying the machine, falling
// back to the host name.
func MachineID() string {
	id, err := machineid.ProtectedID("axpose")
	if err == nil {
		return id[:12]
	}
	if name, err := os.Hostname(); err == nil {
		return name
	}
	return "axpose"
}
