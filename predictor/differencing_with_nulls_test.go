package predictor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDifferencingWithNulls_RoundTrip_CheckerboardNulls(t *testing.T) {
	const nRows, nCols = 10, 10

	values := make([]int32, nRows*nCols)
	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			if (i+j)%2 == 0 {
				values[i*nCols+j] = nullValue
			} else {
				values[i*nCols+j] = int32(i*13 + j*7 - 41)
			}
		}
	}
	// The checkerboard makes the seed cell null; give it a value so the
	// seed carries data.
	values[0] = 100

	m := DifferencingWithNullsModel{}
	seed, os, residuals := m.Encode(nRows, nCols, values)
	require.Len(t, residuals, nRows*nCols-1)

	decoded := m.Decode(seed, os, nRows, nCols, residuals)
	require.Equal(t, values, decoded)
}

func TestDifferencingWithNulls_RoundTrip_NoNulls(t *testing.T) {
	const nRows, nCols = 6, 6
	values := make([]int32, nRows*nCols)
	for i := range values {
		values[i] = int32(i*3 - 17)
	}

	m := DifferencingWithNullsModel{}
	seed, os, residuals := m.Encode(nRows, nCols, values)
	decoded := m.Decode(seed, os, nRows, nCols, residuals)
	require.Equal(t, values, decoded)
}

func TestDifferencingWithNulls_NullResidualIsSentinel(t *testing.T) {
	const nRows, nCols = 2, 2
	values := []int32{1, nullValue, 3, 4}

	m := DifferencingWithNullsModel{}
	_, _, residuals := m.Encode(nRows, nCols, values)
	require.Equal(t, nullValue, residuals[0])
}
