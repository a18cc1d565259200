// Package bridge exposes a bus to remote controllers over MQTT.
//
// Commands are published to <id>/cmd/<name> and answered on
// <id>/reply/<name>, both carrying protobuf messages from package msgs.
// Bridge info is retained on <id>/meta.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/axpose/pkg/ax/comm"
	"github.com/robotalks/axpose/pkg/ax/seq"
	"github.com/robotalks/axpose/pkg/bridge/mqtt"
	"github.com/robotalks/axpose/pkg/bridge/msgs"
)

// Command names.
const (
	CmdRegGet = "reg.get"
	CmdRegSet = "reg.set"
	CmdSync   = "sync"
	CmdPlay   = "play"
	CmdLoop   = "loop"
	CmdHalt   = "halt"
	CmdScan   = "scan"
)

// NewRequest creates an empty request message of a command.
func NewRequest(name string) proto.Message {
	switch name {
	case CmdRegGet:
		return &msgs.RegisterRead{}
	case CmdRegSet:
		return &msgs.RegisterWrite{}
	case CmdSync:
		return &msgs.SyncWriteRequest{}
	case CmdPlay, CmdLoop:
		return &msgs.SequenceDownload{}
	case CmdScan:
		return &msgs.ScanRequest{}
	case CmdHalt:
		return &msgs.CommandResult{}
	}
	return nil
}

// NewReply creates an empty reply message of a command.
func NewReply(name string) proto.Message {
	switch name {
	case CmdRegGet:
		return &msgs.RegisterValue{}
	case CmdScan:
		return &msgs.ScanResult{}
	case CmdRegSet, CmdSync, CmdPlay, CmdLoop, CmdHalt:
		return &msgs.CommandResult{}
	}
	return nil
}

// Broker is the messaging side of a bridge, implemented by *mqtt.Broker.
type Broker interface {
	Handle(pattern string, h mqtt.Handler) error
	Publish(topic string, payload []byte, retain bool) error
}

// Bridge serves commands for one bus.
type Bridge struct {
	ID         string
	Port       string
	Broker     Broker
	Client     *comm.Client
	Downloader *seq.Downloader
	Library    *seq.Library

	ctxLock sync.RWMutex
	ctx     context.Context
}

// New creates a Bridge; lib may be nil.
func New(id, port string, broker Broker, client *comm.Client, poseSize int, lib *seq.Library) *Bridge {
	return &Bridge{
		ID:         id,
		Port:       port,
		Broker:     broker,
		Client:     client,
		Downloader: seq.NewDownloader(client, poseSize),
		Library:    lib,
		ctx:        context.Background(),
	}
}

// Run implements framework.Runnable. It subscribes commands, announces
// the bridge and serves until ctx is done.
func (b *Bridge) Run(ctx context.Context) error {
	b.ctxLock.Lock()
	b.ctx = ctx
	b.ctxLock.Unlock()

	if err := b.Broker.Handle(b.ID+"/cmd/+", b.handleCommand); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	if err := b.announce(true); err != nil {
		return fmt.Errorf("announce: %w", err)
	}
	glog.Infof("bridge %s serving %s", b.ID, b.Port)
	<-ctx.Done()
	if err := b.announce(false); err != nil {
		glog.Warningf("announce offline: %v", err)
	}
	return ctx.Err()
}

// Info describes the bridge.
func (b *Bridge) Info(online bool) *msgs.BridgeInfo {
	info := &msgs.BridgeInfo{
		ID:       b.ID,
		Port:     b.Port,
		PoseSize: uint32(b.Downloader.PoseSize),
		Online:   online,
	}
	if b.Library != nil {
		info.Sequences = b.Library.SequenceNames()
	}
	return info
}

func (b *Bridge) announce(online bool) error {
	data, err := proto.Marshal(b.Info(online))
	if err != nil {
		return err
	}
	return b.Broker.Publish(b.ID+"/meta", data, true)
}

func (b *Bridge) context() context.Context {
	b.ctxLock.RLock()
	defer b.ctxLock.RUnlock()
	return b.ctx
}

func (b *Bridge) handleCommand(topic string, payload []byte) {
	name := topic[len(b.ID+"/cmd/"):]
	reply, err := b.Dispatch(name, payload)
	if err != nil {
		glog.Warningf("command %s: %v", name, err)
		return
	}
	data, err := proto.Marshal(reply)
	if err != nil {
		glog.Errorf("encode reply %s: %v", name, err)
		return
	}
	if err = b.Broker.Publish(b.ID+"/reply/"+name, data, false); err != nil {
		glog.Errorf("reply %s: %v", name, err)
	}
}

// Dispatch executes a command and returns its reply. An error is returned
// only for unknown commands or malformed payloads; bus failures are
// reported inside the reply.
func (b *Bridge) Dispatch(name string, payload []byte) (proto.Message, error) {
	req := NewRequest(name)
	if req == nil {
		return nil, fmt.Errorf("unknown command %q", name)
	}
	if err := proto.Unmarshal(payload, req); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	switch req := req.(type) {
	case *msgs.RegisterRead:
		return b.getRegisters(req), nil
	case *msgs.RegisterWrite:
		if err := checkRange("id", req.ID, uint32(comm.BroadcastID)); err != nil {
			return result(0, err), nil
		}
		if err := checkRange("start", req.Start, 0xff); err != nil {
			return result(0, err), nil
		}
		status, err := b.Client.SetRegister(comm.DeviceID(req.ID), byte(req.Start), req.Values...)
		return result(status, err), nil
	case *msgs.SyncWriteRequest:
		if err := checkRange("start", req.Start, 0xff); err != nil {
			return result(0, err), nil
		}
		rows := make([][]byte, len(req.Rows))
		for n, row := range req.Rows {
			if err := checkRange("row id", row.ID, uint32(comm.BroadcastID)-1); err != nil {
				return result(0, err), nil
			}
			rows[n] = append([]byte{byte(row.ID)}, row.Values...)
		}
		return result(0, b.Client.SyncWrite(byte(req.Start), rows)), nil
	case *msgs.SequenceDownload:
		mode := seq.Play
		if name == CmdLoop {
			mode = seq.Loop
		}
		return result(0, b.download(req, mode)), nil
	case *msgs.ScanRequest:
		return b.scan(req), nil
	}
	return result(0, b.Downloader.Halt()), nil
}

func (b *Bridge) getRegisters(req *msgs.RegisterRead) *msgs.RegisterValue {
	reply := &msgs.RegisterValue{ID: req.ID, Start: req.Start}
	length := req.Length
	if length == 0 {
		length = 1
	}
	// broadcast reads get no reply
	for _, err := range []error{
		checkRange("id", req.ID, uint32(comm.BroadcastID)-1),
		checkRange("start", req.Start, 0xff),
		checkRange("length", length, 0xff),
	} {
		if err != nil {
			reply.Error = err.Error()
			return reply
		}
	}
	vals, status, err := b.Client.ReadData(comm.DeviceID(req.ID), byte(req.Start), byte(length))
	reply.Values, reply.Status = vals, uint32(status)
	if err != nil {
		reply.Error = err.Error()
	}
	return reply
}

func (b *Bridge) scan(req *msgs.ScanRequest) *msgs.ScanResult {
	from, to := req.From, req.To
	if from == 0 {
		from = 1
	}
	if to == 0 && b.Downloader.PoseSize > 0 {
		to = uint32(b.Downloader.PoseSize)
	}
	if to == 0 || to > uint32(comm.MaxActuatorID) {
		to = uint32(comm.MaxActuatorID)
	}
	reply := &msgs.ScanResult{}
	if from > to {
		return reply
	}
	for _, id := range b.Client.Scan(comm.DeviceID(from), comm.DeviceID(to)) {
		reply.IDs = append(reply.IDs, uint32(id))
	}
	return reply
}

func (b *Bridge) download(req *msgs.SequenceDownload, mode seq.Mode) error {
	s, poses, err := b.resolve(req)
	if err != nil {
		return err
	}
	_, err = b.Downloader.Download(b.context(), s, poses, mode)
	return err
}

func (b *Bridge) resolve(req *msgs.SequenceDownload) (seq.Sequence, seq.Poses, error) {
	if req.Name != "" {
		if b.Library == nil {
			return nil, nil, fmt.Errorf("no library loaded")
		}
		s, ok := b.Library.Sequence(req.Name)
		if !ok {
			return nil, nil, fmt.Errorf("unknown sequence %q", req.Name)
		}
		return s, b.Library.Poses, nil
	}
	poses := make(seq.PoseMap, len(req.Poses))
	for _, p := range req.Poses {
		pose := make(seq.Pose, len(p.Values))
		for n, v := range p.Values {
			if v > 0xffff {
				return nil, nil, fmt.Errorf("pose %q: value %d: %w", p.Name, v, comm.ErrInvalidArgument)
			}
			pose[n] = uint16(v)
		}
		poses[p.Name] = pose
	}
	s := make(seq.Sequence, len(req.Transitions))
	for n, t := range req.Transitions {
		s[n] = seq.Transition{Pose: t.Pose, Millis: int(t.Millis)}
	}
	return s, poses, nil
}

func checkRange(name string, val, max uint32) error {
	if val > max {
		return fmt.Errorf("%s %d exceeds %d: %w", name, val, max, comm.ErrInvalidArgument)
	}
	return nil
}

func result(status comm.Status, err error) *msgs.CommandResult {
	r := &msgs.CommandResult{Status: uint32(status)}
	if err != nil {
		r.Error = err.Error()
		var statusErr *comm.StatusError
		if errors.As(err, &statusErr) {
			r.Status = uint32(statusErr.Status)
		}
	}
	return r
}
