package seq

import (
	"fmt"

	"github.com/robotalks/axpose/pkg/ax/comm"
)

// IndexedPose is a pose with its index on the board.
type IndexedPose struct {
	Name  string
	Index int
	Pose  Pose
}

// Plan is an encoded sequence ready for download.
type Plan struct {
	PoseSize    int
	Poses       []IndexedPose
	Transitions []byte
}

// Encode validates the sequence and builds the download plan.
// The sequence is only read.
func Encode(s Sequence, poses Poses, poseSize int) (*Plan, error) {
	if poseSize < 1 || poseSize > MaxPoseSize {
		return nil, fmt.Errorf("pose size %d: %w", poseSize, comm.ErrInvalidArgument)
	}
	if len(s) == 0 {
		return nil, ErrEmptySequence
	}
	if len(s) > MaxTransitions {
		return nil, fmt.Errorf("%d transitions, max %d: %w", len(s), MaxTransitions, ErrSequenceTooLong)
	}

	var index OrderedIndex
	plan := &Plan{
		PoseSize:    poseSize,
		Transitions: make([]byte, 0, 3*len(s)+3),
	}
	for n, t := range s {
		if t.Millis < 1 || t.Millis > MaxMillis {
			return nil, fmt.Errorf("transition %d: %d ms: %w", n, t.Millis, ErrDuration)
		}
		ix, added := index.Add(t.Pose)
		if added {
			pose, ok := poses.Pose(t.Pose)
			if !ok {
				return nil, fmt.Errorf("transition %d: %q: %w", n, t.Pose, ErrUnknownPose)
			}
			if len(pose) != poseSize {
				return nil, fmt.Errorf("pose %q has %d values, expect %d: %w", t.Pose, len(pose), poseSize, ErrPoseSize)
			}
			plan.Poses = append(plan.Poses, IndexedPose{Name: t.Pose, Index: ix, Pose: pose})
		}
		plan.Transitions = append(plan.Transitions, byte(ix), byte(t.Millis), byte(t.Millis>>8))
	}
	plan.Transitions = append(plan.Transitions, EndOfSequence, 0, 0)
	return plan, nil
}

// PoseParams encodes a pose upload: the index followed by each value,
// low byte first.
func PoseParams(index int, pose Pose) []byte {
	params := make([]byte, 1, 1+2*len(pose))
	params[0] = byte(index)
	for _, v := range pose {
		params = append(params, byte(v), byte(v>>8))
	}
	return params
}

// Packets lists the instructions that download the plan and start it.
func (p *Plan) Packets(mode Mode) []*comm.Packet {
	pkts := make([]*comm.Packet, 0, len(p.Poses)+3)
	pkts = append(pkts, &comm.Packet{ID: comm.ControllerID, Instruction: comm.SetPoseSize, Params: []byte{byte(p.PoseSize)}})
	for _, ip := range p.Poses {
		pkts = append(pkts, &comm.Packet{ID: comm.ControllerID, Instruction: comm.LoadPose, Params: PoseParams(ip.Index, ip.Pose)})
	}
	pkts = append(pkts, &comm.Packet{ID: comm.ControllerID, Instruction: comm.LoadSequence, Params: p.Transitions})
	ins := comm.PlaySequence
	if mode == Loop {
		ins = comm.LoopSequence
	}
	return append(pkts, &comm.Packet{ID: comm.ControllerID, Instruction: ins})
}
