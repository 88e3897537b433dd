package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestIndexFile_WriteRead_RoundTrip(t *testing.T) {
	dir := NewDirectory(6)
	dir.Set(0, 8)
	dir.Set(3, 128)

	header := Header{TimeLastModified: 123456789}
	dataUUID := uuid.New()

	f := newMemFile()
	require.NoError(t, WriteTilePositionsToIndexFile(f, header, dataUUID, dir, 4096))

	got, payloadAreaEnd, err := ReadTilePositionsFromIndexFile(f, f.Size(), header, dataUUID, 6)
	require.NoError(t, err)

	require.Equal(t, dir.Get(0), got.Get(0))
	require.Equal(t, dir.Get(3), got.Get(3))
	require.Equal(t, dir.Get(1), got.Get(1))
	require.Equal(t, int64(4096), payloadAreaEnd)
}

func TestIndexFile_StaleWhenUUIDDiffers(t *testing.T) {
	dir := NewDirectory(2)
	header := Header{TimeLastModified: 1}
	dataUUID := uuid.New()

	f := newMemFile()
	require.NoError(t, WriteTilePositionsToIndexFile(f, header, dataUUID, dir, 0))

	_, _, err := ReadTilePositionsFromIndexFile(f, f.Size(), header, uuid.New(), 2)
	require.Error(t, err)
}

func TestIndexFile_StaleWhenTimeDiffers(t *testing.T) {
	dir := NewDirectory(2)
	dataUUID := uuid.New()

	f := newMemFile()
	require.NoError(t, WriteTilePositionsToIndexFile(f, Header{TimeLastModified: 1}, dataUUID, dir, 0))

	_, _, err := ReadTilePositionsFromIndexFile(f, f.Size(), Header{TimeLastModified: 2}, dataUUID, 2)
	require.Error(t, err)
}

func TestParseIndexFile_RejectsBadMagic(t *testing.T) {
	buf := make([]byte, indexHeaderSize)
	copy(buf, "not an index")

	_, _, err := ParseIndexFile(buf, 1)
	require.Error(t, err)
}
