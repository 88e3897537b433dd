package codec

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLZ4RawCodec_RoundTrip_Ints(t *testing.T) {
	codec := NewLZ4RawCodec()
	nRows, nCols := 10, 10
	values := syntheticTile(nRows, nCols)

	packed, err := codec.EncodeInts(nRows, nCols, values)
	require.NoError(t, err)

	decoded, err := codec.DecodeInts(packed, nRows, nCols)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestLZ4RawCodec_RoundTrip_Floats(t *testing.T) {
	codec := NewLZ4RawCodec()
	nRows, nCols := 10, 10
	values := make([]float32, nRows*nCols)
	for i := range values {
		values[i] = float32(i) * 1.5
	}

	packed, err := codec.EncodeFloats(nRows, nCols, values)
	require.NoError(t, err)

	decoded, err := codec.DecodeFloats(packed, nRows, nCols)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestZstdRawCodec_RoundTrip_Ints(t *testing.T) {
	codec := NewZstdRawCodec()
	rng := rand.New(rand.NewSource(7))
	nRows, nCols := 20, 20

	values := make([]int32, nRows*nCols)
	for i := range values {
		values[i] = int32(rng.Intn(500))
	}

	packed, err := codec.EncodeInts(nRows, nCols, values)
	require.NoError(t, err)

	decoded, err := codec.DecodeInts(packed, nRows, nCols)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestZstdRawCodec_RoundTrip_Floats(t *testing.T) {
	codec := NewZstdRawCodec()
	nRows, nCols := 10, 10
	values := make([]float32, nRows*nCols)
	for i := range values {
		values[i] = float32(i) / 3.0
	}

	packed, err := codec.EncodeFloats(nRows, nCols, values)
	require.NoError(t, err)

	decoded, err := codec.DecodeFloats(packed, nRows, nCols)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestLZ4RawCodec_RejectsTruncatedPacking(t *testing.T) {
	codec := NewLZ4RawCodec()
	_, err := codec.DecodeInts([]byte{1, 2}, 4, 4)
	require.Error(t, err)
}
