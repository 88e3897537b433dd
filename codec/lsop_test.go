package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func lsopSyntheticPlane(nRows, nCols int) []int32 {
	values := make([]int32, nRows*nCols)
	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			values[i*nCols+j] = int32(2*i + 3*j + (i*j)%5)
		}
	}

	return values
}

func TestLSOP8_RoundTrip(t *testing.T) {
	codec := NewLSOP8()
	nRows, nCols := 16, 16
	values := lsopSyntheticPlane(nRows, nCols)

	packed, err := codec.EncodeInts(nRows, nCols, values)
	require.NoError(t, err)

	decoded, err := codec.DecodeInts(packed, nRows, nCols)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestLSOP12_RoundTrip(t *testing.T) {
	codec := NewLSOP12()
	nRows, nCols := 16, 16
	values := lsopSyntheticPlane(nRows, nCols)

	packed, err := codec.EncodeInts(nRows, nCols, values)
	require.NoError(t, err)

	decoded, err := codec.DecodeInts(packed, nRows, nCols)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestLSOP8_TooSmallTile(t *testing.T) {
	codec := NewLSOP8()
	_, err := codec.EncodeInts(2, 2, []int32{1, 2, 3, 4})
	require.Error(t, err)
}

func TestLSOP12_RequiresRightMargin(t *testing.T) {
	codec := NewLSOP12()
	nRows, nCols := 20, 20
	values := lsopSyntheticPlane(nRows, nCols)

	packed, err := codec.EncodeInts(nRows, nCols, values)
	require.NoError(t, err)

	decoded, err := codec.DecodeInts(packed, nRows, nCols)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestLSOP8_RejectsWrongPredictorCount(t *testing.T) {
	codec8 := NewLSOP8()
	codec12 := NewLSOP12()
	nRows, nCols := 16, 16
	values := lsopSyntheticPlane(nRows, nCols)

	packed, err := codec8.EncodeInts(nRows, nCols, values)
	require.NoError(t, err)

	_, err = codec12.DecodeInts(packed, nRows, nCols)
	require.Error(t, err)
}
