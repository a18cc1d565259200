package comm

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/axpose/pkg/framework"
)

// RegisterReadFailed is returned by GetRegister when the device didn't
// answer properly. It is distinct from any register value.
const RegisterReadFailed = -1

// Bus is the set of primitive bus operations.
type Bus interface {
	// Execute sends an instruction and waits for the status packet.
	Execute(id DeviceID, ins Instruction, params []byte) (*Response, error)
	// WriteRaw writes bytes outside packet framing.
	WriteRaw(data ...byte) error
}

// Exchange describes one instruction sent on the bus.
type Exchange struct {
	ID          DeviceID
	Instruction Instruction
	Status      Status
	Err         error
	Elapsed     time.Duration
	// NoReply is set for broadcast instructions.
	NoReply bool
}

// Observer is notified after each exchange.
type Observer interface {
	ObserveExchange(Exchange)
}

// ObserveExchangeFunc is func form of Observer.
type ObserveExchangeFunc func(Exchange)

// ObserveExchange implements Observer.
func (f ObserveExchangeFunc) ObserveExchange(x Exchange) {
	f(x)
}

// Client provides device operations over a Transport.
// All operations are serialized; a Client is safe to share.
type Client struct {
	Transport Transport
	Observer  Observer

	lock       sync.Mutex
	lastStatus Status
}

// NewClient creates a client on the transport.
func NewClient(t Transport) *Client {
	return &Client{Transport: t}
}

// Close closes the transport.
func (c *Client) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.Transport.Close()
}

// Exclusive runs fn holding the bus, so a multi-packet conversation is
// not interleaved with other callers. The Bus passed to fn must not be used
// after fn returns.
func (c *Client) Exclusive(fn func(Bus) error) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	return fn(lockedBus{c})
}

// Execute implements Bus.
func (c *Client) Execute(id DeviceID, ins Instruction, params []byte) (*Response, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.execute(id, ins, params)
}

// WriteRaw implements Bus.
func (c *Client) WriteRaw(data ...byte) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.writeRaw(data)
}

// LastStatus is a snapshot of the status byte from the most recent reply.
func (c *Client) LastStatus() Status {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lastStatus
}

// Ping checks a device is present.
func (c *Client) Ping(id DeviceID) (Status, error) {
	resp, err := c.Execute(id, Ping, nil)
	if err != nil {
		return 0, err
	}
	return resp.Status, nil
}

// Scan pings ids in [from, to] and returns the ones that replied.
func (c *Client) Scan(from, to DeviceID) []DeviceID {
	var found []DeviceID
	for id := int(from); id <= int(to); id++ {
		if _, err := c.Ping(DeviceID(id)); err != nil {
			glog.V(2).Infof("scan %d: %v", id, err)
			continue
		}
		found = append(found, DeviceID(id))
	}
	return found
}

// ReadData reads length registers from start.
func (c *Client) ReadData(id DeviceID, start, length byte) ([]byte, Status, error) {
	resp, err := c.Execute(id, ReadData, []byte{start, length})
	if err != nil {
		return nil, 0, err
	}
	if len(resp.Params) != int(length) {
		return nil, resp.Status, fmt.Errorf("read %d registers, got %d: %w", length, len(resp.Params), ErrBadLength)
	}
	return resp.Params, resp.Status, nil
}

// GetRegister reads a single register, returning RegisterReadFailed when
// the device is absent or the reply is broken.
func (c *Client) GetRegister(id DeviceID, start byte) int {
	vals := c.GetRegisters(id, start, 1)
	if vals == nil {
		return RegisterReadFailed
	}
	return int(vals[0])
}

// GetRegisters reads length registers, returning nil on failure.
func (c *Client) GetRegisters(id DeviceID, start, length byte) []byte {
	vals, _, err := c.ReadData(id, start, length)
	if err != nil {
		glog.Warningf("read failed: device %d reg %d: %v", id, start, err)
		return nil
	}
	return vals
}

// SetRegister writes values from start and returns the device status of
// this exchange.
func (c *Client) SetRegister(id DeviceID, start byte, values ...byte) (Status, error) {
	params := make([]byte, 0, len(values)+1)
	params = append(params, start)
	params = append(params, values...)
	resp, err := c.Execute(id, WriteData, params)
	if err != nil {
		return 0, err
	}
	return resp.Status, nil
}

// SyncWrite writes a register block on several devices with one broadcast
// packet. Each row starts with the device id; no reply is read.
func (c *Client) SyncWrite(start byte, rows [][]byte) error {
	pkt, err := NewSyncWritePacket(start, rows)
	if err != nil {
		return err
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	_, err = c.exchange(pkt)
	return err
}

// Relax writes 0 to register reg of devices 1..count, typically the torque
// enable register so the servos can be posed by hand.
func (c *Client) Relax(count int, reg byte) error {
	var errs fx.AggregatedError
	for n := 1; n <= count; n++ {
		if _, err := c.SetRegister(DeviceID(n), reg, 0); err != nil {
			errs.Add(fmt.Errorf("device %d: %w", n, err))
		}
	}
	return errs.Aggregate()
}

// SelfTest asks the controller board to run its test routine.
func (c *Client) SelfTest() (Status, error) {
	resp, err := c.Execute(ControllerID, SelfTest, nil)
	if err != nil {
		return 0, err
	}
	return resp.Status, nil
}

func (c *Client) execute(id DeviceID, ins Instruction, params []byte) (*Response, error) {
	pkt := &Packet{ID: id, Instruction: ins, Params: params}
	if err := pkt.Validate(); err != nil {
		return nil, err
	}
	return c.exchange(pkt)
}

func (c *Client) exchange(pkt *Packet) (resp *Response, err error) {
	x := Exchange{ID: pkt.ID, Instruction: pkt.Instruction, NoReply: pkt.ID == BroadcastID}
	start := time.Now()
	defer func() {
		if obs := c.Observer; obs != nil {
			x.Err, x.Elapsed = err, time.Since(start)
			if resp != nil {
				x.Status = resp.Status
			}
			obs.ObserveExchange(x)
		}
	}()

	if err = c.Transport.FlushInput(); err != nil {
		return nil, err
	}
	data := pkt.Bytes()
	if glog.V(2) {
		glog.Infof("TX % x", data)
	}
	if _, err = c.Transport.Write(data); err != nil {
		return nil, err
	}
	if x.NoReply {
		return &Response{ID: BroadcastID}, nil
	}
	if resp, err = Decode(c.Transport); err != nil {
		glog.V(2).Infof("RX %d %s: %v", pkt.ID, pkt.Instruction, err)
		return nil, err
	}
	if glog.V(2) {
		glog.Infof("RX %d status=%d % x", resp.ID, resp.Status, resp.Params)
	}
	c.lastStatus = resp.Status
	return resp, nil
}

func (c *Client) writeRaw(data []byte) error {
	if glog.V(2) {
		glog.Infof("TX raw % x", data)
	}
	_, err := c.Transport.Write(data)
	return err
}

type lockedBus struct {
	c *Client
}

func (b lockedBus) Execute(id DeviceID, ins Instruction, params []byte) (*Response, error) {
	return b.c.execute(id, ins, params)
}

func (b lockedBus) WriteRaw(data ...byte) error {
	return b.c.writeRaw(data)
}
