package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirectory_SetGet_DividesBy8(t *testing.T) {
	d := NewDirectory(4)
	d.Set(2, 64)

	require.Equal(t, int64(64), d.Get(2))
	require.Equal(t, int64(0), d.Get(0))
}

func TestDirectory_BytesParse_RoundTrip(t *testing.T) {
	d := NewDirectory(3)
	d.Set(0, 8)
	d.Set(1, 16)
	d.Set(2, 0)

	parsed, n, err := ParseDirectory(d.Bytes(), 3)
	require.NoError(t, err)
	require.Equal(t, 12, n)
	require.Equal(t, d.Get(0), parsed.Get(0))
	require.Equal(t, d.Get(1), parsed.Get(1))
	require.Equal(t, d.Get(2), parsed.Get(2))
}

func TestParseDirectory_RejectsTruncated(t *testing.T) {
	_, _, err := ParseDirectory(make([]byte, 4), 3)
	require.Error(t, err)
}
