package seq

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testLibrary = `
pose_size: 2
poses:
  stand: [512, 512]
  crouch: [300, 700]
sequences:
  bob:
    - {pose: crouch, ms: 500}
    - {pose: stand, ms: 300}
  idle:
    - {pose: stand, ms: 1000}
`

func TestLoadLibrary(t *testing.T) {
	lib, err := LoadLibrary(strings.NewReader(testLibrary))
	require.NoError(t, err)
	require.Equal(t, 2, lib.PoseSize)
	require.Equal(t, []string{"bob", "idle"}, lib.SequenceNames())
	bob, ok := lib.Sequence("bob")
	require.True(t, ok)
	require.Equal(t, Sequence{{"crouch", 500}, {"stand", 300}}, bob)
	pose, ok := lib.Poses.Pose("crouch")
	require.True(t, ok)
	require.Equal(t, Pose{300, 700}, pose)
}

func TestLoadLibraryInvalid(t *testing.T) {
	_, err := LoadLibrary(strings.NewReader(strings.Replace(testLibrary, "pose: stand, ms: 300", "pose: sit, ms: 300", 1)))
	require.True(t, errors.Is(err, ErrUnknownPose))

	_, err = LoadLibrary(strings.NewReader(testLibrary + "extra: 1\n"))
	require.Error(t, err)
}
