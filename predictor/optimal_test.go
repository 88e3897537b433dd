package predictor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func syntheticPlane(nRows, nCols int) []int32 {
	values := make([]int32, nRows*nCols)
	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			values[i*nCols+j] = int32(100 + 3*i - 2*j)
		}
	}

	return values
}

func TestOptimal8_RoundTrip(t *testing.T) {
	const nRows, nCols = 12, 12
	values := syntheticPlane(nRows, nCols)

	m := OptimalModel{N: 8}
	seed, coeffs, initRes, interiorRes, err := m.Encode(nRows, nCols, values)
	require.NoError(t, err)
	require.Len(t, coeffs, 8)

	decoded := m.Decode(seed, coeffs, nRows, nCols, initRes, interiorRes)
	require.Equal(t, values, decoded)
}

func TestOptimal12_RoundTrip(t *testing.T) {
	const nRows, nCols = 14, 14
	values := syntheticPlane(nRows, nCols)

	m := OptimalModel{N: 12}
	seed, coeffs, initRes, interiorRes, err := m.Encode(nRows, nCols, values)
	require.NoError(t, err)
	require.Len(t, coeffs, 12)

	decoded := m.Decode(seed, coeffs, nRows, nCols, initRes, interiorRes)
	require.Equal(t, values, decoded)
}

func TestOptimal_RoundTrip_RandomData(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	values := randomGrid(rng, 16, 16, 5000)

	for _, n := range []int{8, 12} {
		m := OptimalModel{N: n}
		seed, coeffs, initRes, interiorRes, err := m.Encode(16, 16, values)
		require.NoError(t, err)

		decoded := m.Decode(seed, coeffs, 16, 16, initRes, interiorRes)
		require.Equal(t, values, decoded)
	}
}

func TestOptimal_ResidualCountsMatchTileGeometry(t *testing.T) {
	const nRows, nCols = 12, 12
	values := syntheticPlane(nRows, nCols)

	m := OptimalModel{N: 8}
	_, _, initRes, interiorRes, err := m.Encode(nRows, nCols, values)
	require.NoError(t, err)
	require.Equal(t, nRows*nCols-1, len(initRes)+len(interiorRes))
}

func TestOptimal_TooSmallTile(t *testing.T) {
	values := []int32{1, 2, 3, 4}
	m := OptimalModel{N: 8}

	_, _, _, _, err := m.Encode(2, 2, values)
	require.Error(t, err)
}

func TestOptimal12_NeedsRightMargin(t *testing.T) {
	// A tile narrower than 5 columns has no room for Optimal12's
	// right-looking stencil even with many rows.
	values := make([]int32, 20*3)
	for i := range values {
		values[i] = int32(i)
	}

	m := OptimalModel{N: 12}
	_, _, _, _, err := m.Encode(20, 3, values)
	require.Error(t, err)
}
