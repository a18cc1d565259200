// Package sh provides an interactive shell on a bus.
package sh

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/axpose/pkg/ax/comm"
	"github.com/robotalks/axpose/pkg/ax/comm/serial"
	"github.com/robotalks/axpose/pkg/ax/seq"
	"github.com/robotalks/axpose/pkg/env"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoOpen    bool

	Shell   *ishell.Shell
	Config  *env.Config
	Library *seq.Library

	lock   sync.Mutex
	port   string
	client *comm.Client
}

const (
	shellKey       = "$shell"
	unopenedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&PortsCmd,
		&OpenCmd,
		&CloseCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unopenedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeOpen wraps command func requiring an open bus.
func MustBeOpen(fn func(c *ishell.Context, client *comm.Client)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		client := ShellFrom(c).Client()
		if client == nil {
			c.Err(fmt.Errorf("no port open"))
			return
		}
		fn(c, client)
	}
}

// WithAutoOpen sets AutoOpen.
func (s *Shell) WithAutoOpen(en bool) *Shell {
	s.AutoOpen = en
	return s
}

// Client returns the client of the open port, or nil.
func (s *Shell) Client() *comm.Client {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.client
}

// Open opens a port, replacing the current one.
func (s *Shell) Open(port string, baudRate int) error {
	t, err := env.OpenTransport(port, baudRate, s.Config.Timeout)
	if err != nil {
		return err
	}
	s.Close()
	s.lock.Lock()
	s.port, s.client = port, comm.NewClient(t)
	s.lock.Unlock()
	s.setPrompt(fmt.Sprintf("%s > ", port))
	return nil
}

// Close closes the current port.
func (s *Shell) Close() {
	s.lock.Lock()
	client := s.client
	s.port, s.client = "", nil
	s.lock.Unlock()
	if client != nil {
		client.Close()
		s.setPrompt(unopenedPrompt)
	}
}

func (s *Shell) setPrompt(prompt string) {
	if s.Shell != nil {
		s.Shell.SetPrompt(prompt)
	}
}

// PoseSize is the actuator count of poses, from the library if loaded.
func (s *Shell) PoseSize() int {
	if s.Library != nil && s.Library.PoseSize > 0 {
		return s.Library.PoseSize
	}
	return s.Config.PoseSize
}

// Print writes a result as JSON or text.
func (s *Shell) Print(c *ishell.Context, v interface{}) {
	if s.OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(v)
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	defer s.Close()
	if s.Config.Library != "" {
		lib, err := seq.LoadLibraryFile(s.Config.Library)
		if err != nil {
			log.Fatalln(err)
		}
		s.Library = lib
	}
	if s.AutoOpen && s.Config.Port != "" {
		if s.Interactive {
			s.Shell.Printf("Opening %s ...\n", s.Config.Port)
		}
		if err := s.Open(s.Config.Port, s.Config.BaudRate); err != nil {
			log.Fatalf("open %q failed: %v", s.Config.Port, err)
		}
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// ParseID parses the id of a device expected to reply: an actuator or
// the controller board.
func ParseID(str string) (comm.DeviceID, error) {
	n, err := strconv.ParseUint(str, 0, 8)
	if err != nil || n < 1 || n > uint64(comm.ControllerID) {
		return 0, fmt.Errorf("invalid device id %q", str)
	}
	return comm.DeviceID(n), nil
}

// ParseTarget parses a write target, which may also be the broadcast id.
func ParseTarget(str string) (comm.DeviceID, error) {
	if n, err := strconv.ParseUint(str, 0, 8); err == nil && n == uint64(comm.BroadcastID) {
		return comm.BroadcastID, nil
	}
	return ParseID(str)
}

// ParseBytes parses register values.
func ParseBytes(strs []string) ([]byte, error) {
	vals := make([]byte, len(strs))
	for n, str := range strs {
		v, err := strconv.ParseUint(str, 0, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q", str)
		}
		vals[n] = byte(v)
	}
	return vals, nil
}

var (
	// PortsCmd lists serial ports.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ports, err := serial.List()
			if err != nil {
				c.Err(err)
				return
			}
			if ports == nil {
				ports = []string{}
			}
			s := ShellFrom(c)
			if s.OutputJSON {
				s.Print(c, ports)
				return
			}
			if len(ports) == 0 {
				c.Println("No serial ports found")
				return
			}
			for _, port := range ports {
				c.Println(port)
			}
		},
	}

	// OpenCmd opens a port.
	OpenCmd = ishell.Cmd{
		Name:    "open",
		Aliases: []string{"o"},
		Help:    "PORT [BAUD]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			port, baud := s.Config.Port, s.Config.BaudRate
			if len(c.Args) > 0 {
				port = c.Args[0]
			}
			if len(c.Args) > 1 {
				n, err := strconv.Atoi(c.Args[1])
				if err != nil {
					c.Err(fmt.Errorf("Invalid BAUD: %v", err))
					return
				}
				baud = n
			}
			if err := s.Open(port, baud); err != nil {
				c.Err(err)
			}
		},
	}

	// CloseCmd closes the port.
	CloseCmd = ishell.Cmd{
		Name:    "close",
		Aliases: []string{"c"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Close()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(env.NewConfig()).WithAutoOpen(true).Run(flag.Args()...)
}
