package codec

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridfour/gvrs/format"
)

func syntheticTile(nRows, nCols int) []int32 {
	values := make([]int32, nRows*nCols)
	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			values[i*nCols+j] = int32(i*7 + j*3)
		}
	}

	return values
}

func TestGridfourDeflate_RoundTrip(t *testing.T) {
	codec := NewGridfourDeflate()
	nRows, nCols := 12, 10
	values := syntheticTile(nRows, nCols)

	packed, err := codec.EncodeInts(nRows, nCols, values)
	require.NoError(t, err)

	decoded, err := codec.DecodeInts(packed, nRows, nCols)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestGridfourHuffman_RoundTrip(t *testing.T) {
	codec := NewGridfourHuffman()
	nRows, nCols := 12, 10
	values := syntheticTile(nRows, nCols)

	packed, err := codec.EncodeInts(nRows, nCols, values)
	require.NoError(t, err)

	decoded, err := codec.DecodeInts(packed, nRows, nCols)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestGridfourDeflate_RoundTrip_WithNulls(t *testing.T) {
	codec := NewGridfourDeflate()
	nRows, nCols := 8, 8
	values := syntheticTile(nRows, nCols)
	values[0] = format.IntMin
	values[5] = format.IntMin
	values[nRows*nCols-1] = format.IntMin

	packed, err := codec.EncodeInts(nRows, nCols, values)
	require.NoError(t, err)

	decoded, err := codec.DecodeInts(packed, nRows, nCols)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestGridfourHuffman_RoundTrip_WithNulls(t *testing.T) {
	codec := NewGridfourHuffman()
	nRows, nCols := 8, 8
	values := syntheticTile(nRows, nCols)
	values[0] = format.IntMin
	values[3] = format.IntMin

	packed, err := codec.EncodeInts(nRows, nCols, values)
	require.NoError(t, err)

	decoded, err := codec.DecodeInts(packed, nRows, nCols)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestGridfourDeflate_RoundTrip_RandomData(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	codec := NewGridfourDeflate()
	nRows, nCols := 16, 16

	values := make([]int32, nRows*nCols)
	for i := range values {
		values[i] = int32(rng.Intn(2000) - 1000)
	}

	packed, err := codec.EncodeInts(nRows, nCols, values)
	require.NoError(t, err)

	decoded, err := codec.DecodeInts(packed, nRows, nCols)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestGridfourDeflate_RejectsInconsistentShape(t *testing.T) {
	codec := NewGridfourDeflate()
	_, err := codec.EncodeInts(4, 4, make([]int32, 10))
	require.Error(t, err)
}
