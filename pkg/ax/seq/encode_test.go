package seq

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/axpose/pkg/ax/comm"
)

var testPoses = PoseMap{
	"A": {512, 300},
	"B": {0x1ff, 0x100},
	"C": {1, 2},
}

func TestOrderedIndex(t *testing.T) {
	var o OrderedIndex
	_, ok := o.Index("x")
	require.False(t, ok)
	for n, key := range []string{"b", "a", "b", "c", "a"} {
		ix, added := o.Add(key)
		switch n {
		case 0, 1, 3:
			require.True(t, added, key)
		default:
			require.False(t, added, key)
		}
		got, ok := o.Index(key)
		require.True(t, ok)
		require.Equal(t, ix, got)
	}
	require.Equal(t, []string{"b", "a", "c"}, o.Keys())
	require.Equal(t, 3, o.Len())
}

func TestEncode(t *testing.T) {
	s := Sequence{{"A", 500}, {"B", 300}, {"A", 700}}
	plan, err := Encode(s, testPoses, 2)
	require.NoError(t, err)
	require.Len(t, plan.Poses, 2)
	require.Equal(t, IndexedPose{Name: "A", Index: 0, Pose: testPoses["A"]}, plan.Poses[0])
	require.Equal(t, IndexedPose{Name: "B", Index: 1, Pose: testPoses["B"]}, plan.Poses[1])
	require.Equal(t, []byte{
		0, 0xf4, 0x01,
		1, 0x2c, 0x01,
		0, 0xbc, 0x02,
		0xff, 0, 0,
	}, plan.Transitions)
	require.Equal(t, Sequence{{"A", 500}, {"B", 300}, {"A", 700}}, s)
}

func TestEncodeFirstAppearanceOrder(t *testing.T) {
	plan, err := Encode(Sequence{{"C", 1}, {"A", 0xffff}, {"C", 2}, {"B", 3}}, testPoses, 2)
	require.NoError(t, err)
	names := make([]string, len(plan.Poses))
	for n, p := range plan.Poses {
		names[n] = p.Name
		require.Equal(t, n, p.Index)
	}
	require.Equal(t, []string{"C", "A", "B"}, names)
	require.Equal(t, []byte{0, 1, 0, 1, 0xff, 0xff, 0, 2, 0, 2, 3, 0, 0xff, 0, 0}, plan.Transitions)
}

func TestEncodeErrors(t *testing.T) {
	long := make(Sequence, MaxTransitions+1)
	for n := range long {
		long[n] = Transition{"A", 10}
	}
	testCases := []struct {
		name     string
		s        Sequence
		poseSize int
		err      error
	}{
		{"empty", nil, 2, ErrEmptySequence},
		{"unknown pose", Sequence{{"A", 10}, {"Z", 10}}, 2, ErrUnknownPose},
		{"pose size", Sequence{{"A", 10}}, 3, ErrPoseSize},
		{"zero duration", Sequence{{"A", 0}}, 2, ErrDuration},
		{"long duration", Sequence{{"A", 0x10000}}, 2, ErrDuration},
		{"too long", long, 2, ErrSequenceTooLong},
		{"bad pose size", Sequence{{"A", 10}}, 0, comm.ErrInvalidArgument},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Encode(tc.s, testPoses, tc.poseSize)
			require.True(t, errors.Is(err, tc.err), "unexpected error %v", err)
		})
	}
}

func TestPlanPackets(t *testing.T) {
	plan, err := Encode(Sequence{{"A", 500}, {"B", 300}, {"A", 700}}, testPoses, 2)
	require.NoError(t, err)

	pkts := plan.Packets(Loop)
	require.Len(t, pkts, 5)
	var ins []comm.Instruction
	for _, pkt := range pkts {
		require.Equal(t, comm.ControllerID, pkt.ID)
		ins = append(ins, pkt.Instruction)
	}
	require.Equal(t, []comm.Instruction{
		comm.SetPoseSize, comm.LoadPose, comm.LoadPose, comm.LoadSequence, comm.LoopSequence,
	}, ins)
	require.Equal(t, []byte{2}, pkts[0].Params)
	require.Equal(t, []byte{0, 0x00, 0x02, 0x2c, 0x01}, pkts[1].Params)
	require.Equal(t, []byte{1, 0xff, 0x01, 0x00, 0x01}, pkts[2].Params)
	require.Len(t, pkts[3].Params, 12)
	require.Empty(t, pkts[4].Params)

	require.Equal(t, comm.PlaySequence, plan.Packets(Play)[4].Instruction)
}
