// Package motion provides shell commands for poses and sequences.
package motion

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"
	"gopkg.in/yaml.v3"

	"github.com/robotalks/axpose/pkg/ax/comm"
	"github.com/robotalks/axpose/pkg/ax/seq"
	"github.com/robotalks/axpose/pkg/cli/sh"
)

func library(c *ishell.Context) *seq.Library {
	s := sh.ShellFrom(c)
	if s.Library == nil {
		s.Library = &seq.Library{
			PoseSize:  s.PoseSize(),
			Poses:     make(seq.PoseMap),
			Sequences: make(map[string]seq.Sequence),
		}
	}
	if s.Library.Poses == nil {
		s.Library.Poses = make(seq.PoseMap)
	}
	if s.Library.Sequences == nil {
		s.Library.Sequences = make(map[string]seq.Sequence)
	}
	return s.Library
}

// ParseSequence parses "POSE:MS" arguments into a sequence.
func ParseSequence(args []string) (seq.Sequence, error) {
	s := make(seq.Sequence, 0, len(args))
	for _, arg := range args {
		n := strings.LastIndexByte(arg, ':')
		if n <= 0 {
			return nil, fmt.Errorf("invalid transition %q, expect POSE:MS", arg)
		}
		ms, err := strconv.Atoi(arg[n+1:])
		if err != nil {
			return nil, fmt.Errorf("invalid transition %q: %v", arg, err)
		}
		s = append(s, seq.Transition{Pose: arg[:n], Millis: ms})
	}
	return s, nil
}

func download(mode seq.Mode) func(*ishell.Context, *comm.Client) {
	return func(c *ishell.Context, client *comm.Client) {
		if len(c.Args) < 1 {
			c.Err(fmt.Errorf("NAME or POSE:MS... required"))
			return
		}
		lib := library(c)
		s, ok := lib.Sequence(c.Args[0])
		if !ok || len(c.Args) > 1 {
			var err error
			if s, err = ParseSequence(c.Args); err != nil {
				c.Err(err)
				return
			}
		}
		d := seq.NewDownloader(client, lib.PoseSize)
		plan, err := d.Download(context.Background(), s, lib.Poses, mode)
		if err != nil {
			c.Err(err)
			return
		}
		c.Printf("%s: %d poses, %d transitions\n", mode, len(plan.Poses), len(s))
	}
}

var (
	// LoadCmd loads a motion library.
	LoadCmd = ishell.Cmd{
		Name: "load",
		Help: "FILE",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("FILE required"))
				return
			}
			lib, err := seq.LoadLibraryFile(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			sh.ShellFrom(c).Library = lib
			c.Printf("%d poses, sequences: %v\n", len(lib.Poses), lib.SequenceNames())
		},
	}

	// SaveCmd writes the library to a file.
	SaveCmd = ishell.Cmd{
		Name: "save",
		Help: "FILE",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("FILE required"))
				return
			}
			data, err := yaml.Marshal(library(c))
			if err != nil {
				c.Err(err)
				return
			}
			if err = os.WriteFile(c.Args[0], data, 0644); err != nil {
				c.Err(err)
			}
		},
	}

	// CaptureCmd reads the present pose into the library.
	CaptureCmd = ishell.Cmd{
		Name: "capture",
		Help: "NAME",
		Func: sh.MustBeOpen(func(c *ishell.Context, client *comm.Client) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("NAME required"))
				return
			}
			lib := library(c)
			reg := sh.ShellFrom(c).Config.PositionRegister
			pose, err := seq.CapturePose(client, lib.PoseSize, byte(reg))
			if err != nil {
				c.Err(err)
				return
			}
			lib.Poses[c.Args[0]] = pose
			c.Println(c.Args[0], []uint16(pose))
		}),
	}

	// PlayCmd downloads a sequence and plays it once.
	PlayCmd = ishell.Cmd{
		Name: "play",
		Help: "NAME | POSE:MS...",
		Func: sh.MustBeOpen(download(seq.Play)),
	}

	// LoopCmd downloads a sequence and plays it repeatedly.
	LoopCmd = ishell.Cmd{
		Name: "loop",
		Help: "NAME | POSE:MS...",
		Func: sh.MustBeOpen(download(seq.Loop)),
	}

	// HaltCmd stops playback.
	HaltCmd = ishell.Cmd{
		Name:    "halt",
		Aliases: []string{"h"},
		Help:    "",
		Func: sh.MustBeOpen(func(c *ishell.Context, client *comm.Client) {
			if err := seq.NewDownloader(client, 0).Halt(); err != nil {
				c.Err(err)
			}
		}),
	}
)

func init() {
	sh.AddCmds(
		&LoadCmd,
		&SaveCmd,
		&CaptureCmd,
		&PlayCmd,
		&LoopCmd,
		&HaltCmd,
	)
}
