package comm

import "fmt"

// DeviceID addresses a device on the bus.
type DeviceID byte

// Reserved device ids.
const (
	// ControllerID addresses the controller board, not an actuator.
	ControllerID DeviceID = 253
	// BroadcastID addresses all devices, none of which replies.
	BroadcastID DeviceID = 254
	// MaxActuatorID is the highest id usable by an actuator.
	MaxActuatorID DeviceID = 252
)

// IsActuator tells if the id addresses a single actuator.
func (id DeviceID) IsActuator() bool {
	return id >= 1 && id <= MaxActuatorID
}

// Instruction is the operation code of an instruction packet.
type Instruction byte

// Device instructions.
const (
	Ping      Instruction = 0x01
	ReadData  Instruction = 0x02
	WriteData Instruction = 0x03
	RegWrite  Instruction = 0x04
	Action    Instruction = 0x05
	Reset     Instruction = 0x06
	SyncWrite Instruction = 0x83
)

// Controller board instructions, only meaningful when sent to ControllerID.
const (
	SetPoseSize  Instruction = 7
	LoadPose     Instruction = 8
	LoadSequence Instruction = 9
	PlaySequence Instruction = 10
	LoopSequence Instruction = 11
	SelfTest     Instruction = 25
)

// HaltByte is written outside packet framing to stop sequence playback.
const HaltByte byte = 'H'

var instructionNames = map[Instruction]string{
	Ping:         "ping",
	ReadData:     "read",
	WriteData:    "write",
	RegWrite:     "reg-write",
	Action:       "action",
	Reset:        "reset",
	SyncWrite:    "sync-write",
	SetPoseSize:  "pose-size",
	LoadPose:     "load-pose",
	LoadSequence: "load-seq",
	PlaySequence: "play",
	LoopSequence: "loop",
	SelfTest:     "test",
}

// String implements fmt.Stringer.
func (i Instruction) String() string {
	if name, ok := instructionNames[i]; ok {
		return name
	}
	return fmt.Sprintf("0x%02x", byte(i))
}

// Status is the error byte reported by a device in a status packet.
// Its bits are device specific; zero means no error.
type Status byte

// OK tells if the device reported no error.
func (s Status) OK() bool {
	return s == 0
}
