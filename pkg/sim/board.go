package sim

import (
	"sync"

	"github.com/robotalks/axpose/pkg/ax/comm"
)

// Step is one decoded transition stored on the board.
type Step struct {
	Pose     int
	Duration uint16
}

// PlayState is the playback state of the board.
type PlayState int

// Playback states.
const (
	Stopped PlayState = iota
	Playing
	Looping
)

// Board simulates the controller board firmware.
type Board struct {
	lock     sync.Mutex
	poseSize int
	poses    map[int][]uint16
	sequence []Step
	state    PlayState
	halts    int
	tests    int
	fault    comm.Status
}

// SetFault makes every reply from the board carry status.
func (b *Board) SetFault(status comm.Status) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.fault = status
}

// PoseSize returns the configured number of actuators per pose.
func (b *Board) PoseSize() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.poseSize
}

// Pose returns a stored pose by index.
func (b *Board) Pose(index int) ([]uint16, bool) {
	b.lock.Lock()
	defer b.lock.Unlock()
	pose, ok := b.poses[index]
	return pose, ok
}

// PoseCount returns the number of stored poses.
func (b *Board) PoseCount() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.poses)
}

// Sequence returns the stored transitions, without the end marker.
func (b *Board) Sequence() []Step {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]Step(nil), b.sequence...)
}

// State returns the playback state.
func (b *Board) State() PlayState {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.state
}

// Halts counts received halt bytes.
func (b *Board) Halts() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.halts
}

// Tests counts received self-test instructions.
func (b *Board) Tests() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.tests
}

func (b *Board) halt() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.state = Stopped
	b.halts++
}

func (b *Board) execute(pkt *comm.Packet) comm.Status {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.fault != 0 {
		return b.fault
	}
	switch pkt.Instruction {
	case comm.Ping:
	case comm.SetPoseSize:
		if len(pkt.Params) != 1 {
			return StatusInstructionError
		}
		b.poseSize = int(pkt.Params[0])
		b.poses = make(map[int][]uint16)
	case comm.LoadPose:
		if len(pkt.Params) != 1+2*b.poseSize {
			return StatusInstructionError
		}
		pose := make([]uint16, b.poseSize)
		for n := range pose {
			pose[n] = uint16(pkt.Params[1+2*n]) | uint16(pkt.Params[2+2*n])<<8
		}
		if b.poses == nil {
			b.poses = make(map[int][]uint16)
		}
		b.poses[int(pkt.Params[0])] = pose
	case comm.LoadSequence:
		var steps []Step
		params := pkt.Params
		for ; len(params) >= 3 && params[0] != 0xff; params = params[3:] {
			steps = append(steps, Step{Pose: int(params[0]), Duration: uint16(params[1]) | uint16(params[2])<<8})
		}
		if len(params) < 3 {
			return StatusInstructionError
		}
		b.sequence = steps
	case comm.PlaySequence:
		b.state = Playing
	case comm.LoopSequence:
		b.state = Looping
	case comm.SelfTest:
		b.tests++
	default:
		return StatusInstructionError
	}
	return 0
}
