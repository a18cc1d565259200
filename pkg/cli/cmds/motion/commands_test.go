package motion

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/axpose/pkg/ax/seq"
)

func TestParseSequence(t *testing.T) {
	s, err := ParseSequence([]string{"stand:500", "a:b:20"})
	require.NoError(t, err)
	require.Equal(t, seq.Sequence{{Pose: "stand", Millis: 500}, {Pose: "a:b", Millis: 20}}, s)

	for _, arg := range []string{"stand", ":100", "stand:x"} {
		_, err = ParseSequence([]string{arg})
		require.Error(t, err, arg)
	}
}
