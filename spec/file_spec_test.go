package spec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridfour/gvrs/element"
)

func sampleSpec(t *testing.T) FileSpec {
	t.Helper()

	s, err := New(1000, 800, 64, 64, []element.Spec{
		element.NewIntegerSpec("elevation"),
		element.NewIntegerCodedFloatSpec("temperature", 100, -40),
	})
	require.NoError(t, err)
	s.CodecNames = []string{"GridfourDeflate", "GridfourHuffman", "LSOP8"}

	return s
}

func TestFileSpec_TileCounts(t *testing.T) {
	s := sampleSpec(t)
	require.Equal(t, 16, s.TileCountRows())
	require.Equal(t, 13, s.TileCountCols())
	require.Equal(t, 16*13, s.TileCount())
}

func TestFileSpec_TileIndexOf(t *testing.T) {
	s := sampleSpec(t)

	tileIndex, rowInTile, colInTile := s.TileIndexOf(65, 70)
	require.Equal(t, 1*s.TileCountCols()+1, tileIndex)
	require.Equal(t, 1, rowInTile)
	require.Equal(t, 6, colInTile)
}

func TestFileSpec_BytesParse_RoundTrip(t *testing.T) {
	s := sampleSpec(t)

	buf := s.Bytes()
	parsed, err := Parse(buf)
	require.NoError(t, err)

	require.Equal(t, s.R, parsed.R)
	require.Equal(t, s.C, parsed.C)
	require.Equal(t, s.TileRows, parsed.TileRows)
	require.Equal(t, s.TileCols, parsed.TileCols)
	require.Equal(t, s.Elements, parsed.Elements)
	require.Equal(t, s.CodecNames, parsed.CodecNames)
	require.Equal(t, s.UUID, parsed.UUID)
	require.Nil(t, parsed.Mapper)
}

func TestFileSpec_Validate_RejectsBadShape(t *testing.T) {
	_, err := New(0, 100, 10, 10, []element.Spec{element.NewIntegerSpec("a")})
	require.Error(t, err)

	_, err = New(100, 100, 0, 10, []element.Spec{element.NewIntegerSpec("a")})
	require.Error(t, err)

	_, err = New(100, 100, 10, 10, nil)
	require.Error(t, err)
}
