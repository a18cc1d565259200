package seq

import (
	"errors"
	"fmt"
)

// Pose holds a target register value per actuator; index 0 is device 1.
type Pose []uint16

// Poses looks up poses by name.
type Poses interface {
	Pose(name string) (Pose, bool)
}

// PoseMap is a Poses backed by a map.
type PoseMap map[string]Pose

// Pose implements Poses.
func (m PoseMap) Pose(name string) (Pose, bool) {
	p, ok := m[name]
	return p, ok
}

// Transition moves to a pose over Millis milliseconds.
type Transition struct {
	Pose   string `yaml:"pose"`
	Millis int    `yaml:"ms"`
}

// Sequence is an ordered list of transitions.
type Sequence []Transition

// Mode selects how the board plays a downloaded sequence.
type Mode int

// Playback modes.
const (
	Play Mode = iota
	Loop
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m == Loop {
		return "loop"
	}
	return "play"
}

// Limits of the wire encoding.
const (
	// MaxMillis is the longest transition, sent as 16 bits.
	MaxMillis = 0xffff
	// MaxPoseSize keeps a pose upload within one packet.
	MaxPoseSize = 126
	// MaxTransitions keeps the transition table within one packet,
	// leaving room for the end marker.
	MaxTransitions = 83
	// EndOfSequence is the pose index marking the end of the table.
	EndOfSequence = 0xff
)

var (
	// ErrEmptySequence indicates a sequence without transitions.
	ErrEmptySequence = errors.New("empty sequence")
	// ErrSequenceTooLong indicates more transitions than fit in a packet.
	ErrSequenceTooLong = errors.New("sequence too long")
	// ErrUnknownPose indicates a transition references a missing pose.
	ErrUnknownPose = errors.New("unknown pose")
	// ErrPoseSize indicates a pose doesn't match the actuator count.
	ErrPoseSize = errors.New("pose size mismatch")
	// ErrDuration indicates a transition duration out of [1, 65535] ms.
	ErrDuration = errors.New("duration out of range")
)

// StepError reports the download step that failed.
type StepError struct {
	Step string
	Err  error
}

// Error implements error.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error {
	return e.Err
}
