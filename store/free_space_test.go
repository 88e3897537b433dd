package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFreeSpaceMap_AllocateFirstFit(t *testing.T) {
	m := &FreeSpaceMap{}
	m.Release(100, 50)
	m.Release(200, 20)

	offset, ok := m.Allocate(10)
	require.True(t, ok)
	require.Equal(t, int64(100), offset)

	count, total := m.Stats()
	require.Equal(t, 2, count)
	require.Equal(t, int64(40+20), total)
}

func TestFreeSpaceMap_AllocateNoFit(t *testing.T) {
	m := &FreeSpaceMap{}
	m.Release(100, 5)

	_, ok := m.Allocate(10)
	require.False(t, ok)
}

func TestFreeSpaceMap_ReleaseMergesAdjacent(t *testing.T) {
	m := &FreeSpaceMap{}
	m.Release(100, 50)
	m.Release(150, 50)

	count, total := m.Stats()
	require.Equal(t, 1, count)
	require.Equal(t, int64(100), total)

	offset, ok := m.Allocate(100)
	require.True(t, ok)
	require.Equal(t, int64(100), offset)
}

func TestFreeSpaceMap_BytesParse_RoundTrip(t *testing.T) {
	m := &FreeSpaceMap{}
	m.Release(16, 32)
	m.Release(500, 64)

	parsed, n, err := ParseFreeSpaceMap(m.Bytes())
	require.NoError(t, err)
	require.Equal(t, len(m.Bytes()), n)

	count, total := parsed.Stats()
	require.Equal(t, 2, count)
	require.Equal(t, int64(96), total)
}
