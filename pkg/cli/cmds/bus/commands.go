// Package bus provides shell commands for single device access.
package bus

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/axpose/pkg/ax/comm"
	"github.com/robotalks/axpose/pkg/cli/sh"
)

// RegisterResult is printed by get.
type RegisterResult struct {
	ID     comm.DeviceID `json:"id"`
	Start  byte          `json:"start"`
	Values []int         `json:"values"`
	Status comm.Status   `json:"status"`
}

// String implements fmt.Stringer.
func (r *RegisterResult) String() string {
	return fmt.Sprintf("%d[%d]: %v (status %#02x)", r.ID, r.Start, r.Values, byte(r.Status))
}

func statusOf(c *ishell.Context, status comm.Status, err error) {
	if err != nil {
		c.Err(err)
		return
	}
	if !status.OK() {
		c.Printf("status %#02x\n", byte(status))
		return
	}
	c.Println("OK")
}

var (
	// PingCmd pings a device.
	PingCmd = ishell.Cmd{
		Name:    "ping",
		Aliases: []string{"p"},
		Help:    "ID",
		Func: sh.MustBeOpen(func(c *ishell.Context, client *comm.Client) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("ID required"))
				return
			}
			id, err := sh.ParseID(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			status, err := client.Ping(id)
			statusOf(c, status, err)
		}),
	}

	// ScanCmd finds the devices present.
	ScanCmd = ishell.Cmd{
		Name: "scan",
		Help: "[FROM] [TO]",
		Func: sh.MustBeOpen(func(c *ishell.Context, client *comm.Client) {
			from, to := comm.DeviceID(1), comm.MaxActuatorID
			if n := sh.ShellFrom(c).PoseSize(); n > 0 && n <= int(comm.MaxActuatorID) {
				to = comm.DeviceID(n)
			}
			var err error
			if len(c.Args) > 0 {
				if from, err = sh.ParseID(c.Args[0]); err != nil {
					c.Err(err)
					return
				}
			}
			if len(c.Args) > 1 {
				if to, err = sh.ParseID(c.Args[1]); err != nil {
					c.Err(err)
					return
				}
			}
			ids := client.Scan(from, to)
			if ids == nil {
				ids = []comm.DeviceID{}
			}
			sh.ShellFrom(c).Print(c, ids)
		}),
	}

	// GetCmd reads registers.
	GetCmd = ishell.Cmd{
		Name:    "get",
		Aliases: []string{"g"},
		Help:    "ID REG [COUNT]",
		Func: sh.MustBeOpen(func(c *ishell.Context, client *comm.Client) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("ID and REG required"))
				return
			}
			id, err := sh.ParseID(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			reg, err := sh.ParseBytes(c.Args[1:2])
			if err != nil {
				c.Err(err)
				return
			}
			count := 1
			if len(c.Args) > 2 {
				if count, err = strconv.Atoi(c.Args[2]); err != nil || count < 1 || count > 255 {
					c.Err(fmt.Errorf("Invalid COUNT: %s", c.Args[2]))
					return
				}
			}
			vals, status, err := client.ReadData(id, reg[0], byte(count))
			if err != nil {
				c.Err(err)
				return
			}
			res := &RegisterResult{ID: id, Start: reg[0], Status: status, Values: make([]int, len(vals))}
			for n, v := range vals {
				res.Values[n] = int(v)
			}
			sh.ShellFrom(c).Print(c, res)
		}),
	}

	// SetCmd writes registers.
	SetCmd = ishell.Cmd{
		Name:    "set",
		Aliases: []string{"s"},
		Help:    "ID REG VALUE...",
		Func: sh.MustBeOpen(func(c *ishell.Context, client *comm.Client) {
			if len(c.Args) < 3 {
				c.Err(fmt.Errorf("ID, REG and VALUE required"))
				return
			}
			id, err := sh.ParseTarget(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			vals, err := sh.ParseBytes(c.Args[1:])
			if err != nil {
				c.Err(err)
				return
			}
			status, err := client.SetRegister(id, vals[0], vals[1:]...)
			statusOf(c, status, err)
		}),
	}

	// SyncCmd writes a register block on several devices at once.
	SyncCmd = ishell.Cmd{
		Name: "sync",
		Help: "REG WIDTH ID VALUE... [ID VALUE...]",
		Func: sh.MustBeOpen(func(c *ishell.Context, client *comm.Client) {
			if len(c.Args) < 3 {
				c.Err(fmt.Errorf("REG, WIDTH and rows required"))
				return
			}
			vals, err := sh.ParseBytes(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			start, width, data := vals[0], int(vals[1])+1, vals[2:]
			if vals[1] == 0 || len(data)%width != 0 {
				c.Err(fmt.Errorf("each row needs ID and %d values", vals[1]))
				return
			}
			var rows [][]byte
			for ; len(data) > 0; data = data[width:] {
				rows = append(rows, data[:width])
			}
			if err := client.SyncWrite(start, rows); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		}),
	}

	// RelaxCmd releases torque on every actuator of a pose.
	RelaxCmd = ishell.Cmd{
		Name: "relax",
		Help: "[COUNT]",
		Func: sh.MustBeOpen(func(c *ishell.Context, client *comm.Client) {
			s := sh.ShellFrom(c)
			count := s.PoseSize()
			if len(c.Args) > 0 {
				n, err := strconv.Atoi(c.Args[0])
				if err != nil || n < 1 || n > int(comm.MaxActuatorID) {
					c.Err(fmt.Errorf("Invalid COUNT: %s", c.Args[0]))
					return
				}
				count = n
			}
			if err := client.Relax(count, byte(s.Config.TorqueRegister)); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		}),
	}

	// TestCmd runs the controller self test.
	TestCmd = ishell.Cmd{
		Name: "test",
		Help: "",
		Func: sh.MustBeOpen(func(c *ishell.Context, client *comm.Client) {
			status, err := client.SelfTest()
			statusOf(c, status, err)
		}),
	}
)

func init() {
	sh.AddCmds(
		&PingCmd,
		&ScanCmd,
		&GetCmd,
		&SetCmd,
		&SyncCmd,
		&RelaxCmd,
		&TestCmd,
	)
}
