package element

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridfour/gvrs/format"
)

func TestSpec_Validate(t *testing.T) {
	require.NoError(t, NewIntegerSpec("elevation").Validate())
	require.Error(t, NewIntegerSpec("").Validate())
	require.Error(t, NewIntegerSpec(strings.Repeat("x", maxNameLen+1)).Validate())
	require.Error(t, NewIntegerCodedFloatSpec("scaled", 0, 0).Validate())
}

func TestSpec_ToFromFloat64_RoundTrip(t *testing.T) {
	s := NewIntegerCodedFloatSpec("temperature", 100, -40)

	for _, stored := range []int32{0, 1234, -5000, 4000} {
		value := s.ToFloat64(stored)
		back := s.FromFloat64(value)
		require.Equal(t, stored, back)
	}
}

func TestSpec_NullRoundTrip(t *testing.T) {
	s := NewIntegerCodedFloatSpec("temperature", 100, -40)

	value := s.ToFloat64(format.IntMin)
	require.True(t, value != value)
	require.Equal(t, int32(format.IntMin), s.FromFloat64(value))
}

func TestSpec_BytesParse_RoundTrip(t *testing.T) {
	s := NewIntegerCodedFloatSpec("temperature", 100, -40)

	buf := s.Bytes()
	parsed, n, err := Parse(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, s, parsed)
}

func TestParse_TruncatedInput(t *testing.T) {
	_, _, err := Parse([]byte{5, 'a', 'b'})
	require.Error(t, err)
}
