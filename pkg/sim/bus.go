// Package sim simulates a servo bus in memory: actuators with register
// tables and a controller board storing downloaded sequences. Bus
// implements comm.Transport so a comm.Client can drive it like hardware.
package sim

import (
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/axpose/pkg/ax/comm"
)

// Status bit reported for an instruction a device doesn't understand.
const StatusInstructionError comm.Status = 0x40

// Device is a simulated actuator.
type Device struct {
	ID        comm.DeviceID
	Registers [256]byte
	// Status is reported in every reply.
	Status comm.Status
}

// Word reads a little-endian register pair.
func (d *Device) Word(reg byte) uint16 {
	return uint16(d.Registers[reg]) | uint16(d.Registers[reg+1])<<8
}

// SetWord writes a little-endian register pair.
func (d *Device) SetWord(reg byte, val uint16) {
	d.Registers[reg], d.Registers[reg+1] = byte(val), byte(val>>8)
}

// Bus is the simulated bus.
type Bus struct {
	Board *Board

	lock     sync.Mutex
	devices  map[comm.DeviceID]*Device
	parser   comm.Parser
	output   []byte
	noise    []byte
	corrupt  bool
	silenced map[comm.DeviceID]bool
	closed   bool
}

// New creates a bus with actuators 1..count and a controller board.
func New(count int) *Bus {
	b := &Bus{
		Board:    &Board{},
		devices:  make(map[comm.DeviceID]*Device),
		silenced: make(map[comm.DeviceID]bool),
	}
	for n := 1; n <= count; n++ {
		b.AddDevice(comm.DeviceID(n))
	}
	return b
}

// AddDevice attaches an actuator.
func (b *Bus) AddDevice(id comm.DeviceID) *Device {
	b.lock.Lock()
	defer b.lock.Unlock()
	dev := &Device{ID: id}
	b.devices[id] = dev
	return dev
}

// Device returns an attached actuator or nil.
func (b *Bus) Device(id comm.DeviceID) *Device {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.devices[id]
}

// Silence stops a device (or the board) from replying.
func (b *Bus) Silence(id comm.DeviceID, silent bool) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.silenced[id] = silent
}

// CorruptNextReply flips the checksum of the next reply.
func (b *Bus) CorruptNextReply() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.corrupt = true
}

// NoiseBeforeNextReply queues bytes to arrive ahead of the next reply.
func (b *Bus) NoiseBeforeNextReply(noise ...byte) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.noise = append(b.noise, noise...)
}

// Inject queues bytes for reading, e.g. a stale reply.
func (b *Bus) Inject(data ...byte) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.output = append(b.output, data...)
}

// Write implements io.Writer. Bytes are parsed as instruction packets;
// a halt byte between packets stops playback on the board.
func (b *Bus) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.closed {
		return 0, comm.ErrClosed
	}
	for _, c := range p {
		if c == comm.HaltByte && b.parser.Idle() {
			b.Board.halt()
			continue
		}
		pkt, err := b.parser.Parse(c)
		if err != nil {
			glog.V(3).Infof("sim: dropped packet: %v", err)
			continue
		}
		if pkt != nil {
			b.dispatch(&comm.Packet{ID: pkt.ID, Instruction: comm.Instruction(pkt.Status), Params: pkt.Params})
		}
	}
	return len(p), nil
}

// ReadByte implements io.ByteReader. An empty bus times out immediately.
func (b *Bus) ReadByte() (byte, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.closed {
		return 0, comm.ErrClosed
	}
	if len(b.output) == 0 {
		return 0, comm.ErrReadTimeout
	}
	c := b.output[0]
	b.output = b.output[1:]
	return c, nil
}

// FlushInput implements comm.Transport.
func (b *Bus) FlushInput() error {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.output = nil
	return nil
}

// Close implements io.Closer.
func (b *Bus) Close() error {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.closed = true
	return nil
}

func (b *Bus) dispatch(pkt *comm.Packet) {
	glog.V(3).Infof("sim: %d %s % x", pkt.ID, pkt.Instruction, pkt.Params)
	switch pkt.ID {
	case comm.BroadcastID:
		b.broadcast(pkt)
	case comm.ControllerID:
		status := b.Board.execute(pkt)
		b.reply(pkt.ID, status)
	default:
		if dev := b.devices[pkt.ID]; dev != nil {
			b.actuator(dev, pkt)
		}
	}
}

func (b *Bus) broadcast(pkt *comm.Packet) {
	switch pkt.Instruction {
	case comm.SyncWrite:
		if len(pkt.Params) < 2 {
			return
		}
		start, width := pkt.Params[0], int(pkt.Params[1])+1
		rows := pkt.Params[2:]
		for ; len(rows) >= width; rows = rows[width:] {
			if dev := b.devices[comm.DeviceID(rows[0])]; dev != nil {
				copy(dev.Registers[start:], rows[1:width])
			}
		}
	case comm.WriteData:
		if len(pkt.Params) < 1 {
			return
		}
		for _, dev := range b.devices {
			copy(dev.Registers[pkt.Params[0]:], pkt.Params[1:])
		}
	}
}

func (b *Bus) actuator(dev *Device, pkt *comm.Packet) {
	switch pkt.Instruction {
	case comm.Ping:
		b.reply(dev.ID, dev.Status)
	case comm.ReadData:
		if len(pkt.Params) != 2 {
			b.reply(dev.ID, dev.Status|StatusInstructionError)
			return
		}
		start, length := int(pkt.Params[0]), int(pkt.Params[1])
		if start+length > len(dev.Registers) {
			length = len(dev.Registers) - start
		}
		b.reply(dev.ID, dev.Status, dev.Registers[start:start+length]...)
	case comm.WriteData:
		if len(pkt.Params) < 1 {
			b.reply(dev.ID, dev.Status|StatusInstructionError)
			return
		}
		copy(dev.Registers[pkt.Params[0]:], pkt.Params[1:])
		b.reply(dev.ID, dev.Status)
	default:
		b.reply(dev.ID, dev.Status|StatusInstructionError)
	}
}

func (b *Bus) reply(id comm.DeviceID, status comm.Status, params ...byte) {
	if b.silenced[id] {
		return
	}
	data := (&comm.Packet{ID: id, Instruction: comm.Instruction(status), Params: params}).Bytes()
	if b.corrupt {
		data[len(data)-1] ^= 0xff
		b.corrupt = false
	}
	b.output = append(b.output, b.noise...)
	b.output = append(b.output, data...)
	b.noise = nil
}
