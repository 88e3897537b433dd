package predictor

import (
	"math"

	"github.com/gridfour/gvrs/format"
)

// DifferencingWithNullsModel is Differencing's topology with INT_MIN treated
// as a null sentinel that breaks the prediction chain (spec.md §4.2).
//
// The predictor neighbor for a cell is defined exactly as in Differencing:
// the cell directly above for the first column of any row after the first,
// the left neighbor otherwise. A null cell always emits residual INT_MIN.
// A non-null cell whose predictor neighbor is null ("start-after-null") is
// predicted from OS rather than from the null neighbor's value; every other
// non-null cell is predicted from its neighbor as usual.
//
// OS is the rounded mean of every start-after-null cell's true value across
// the whole tile. Because decode proceeds incrementally and cannot know in
// advance which future cells are start-after-null, OS cannot be recomputed
// causally during decode; it is therefore computed once by the encoder and
// carried as an explicit extra int32 in the tile payload header, the same
// way the Optimal predictor carries its fitted coefficients (spec.md §4.7).
type DifferencingWithNullsModel struct{}

func (DifferencingWithNullsModel) Code() format.PredictorCode {
	return format.PredictorDifferencingWithNulls
}

const nullValue = int32(math.MinInt32)

func predictorNeighbor(values []int32, nCols, i, j int) int32 {
	if i == 0 {
		return values[j-1]
	}
	if j == 0 {
		return values[(i-1)*nCols]
	}

	return values[i*nCols+j-1]
}

// Encode returns the seed, the computed OS value, and the residual stream.
func (DifferencingWithNullsModel) Encode(nRows, nCols int, values []int32) (seed int32, os int32, residuals []int32) {
	seed = values[0]
	residuals = make([]int32, 0, nRows*nCols-1)

	var sum int64
	var count int64

	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			if i == 0 && j == 0 {
				continue
			}

			cur := values[i*nCols+j]
			if cur == nullValue {
				continue
			}

			neighbor := predictorNeighbor(values, nCols, i, j)
			if neighbor == nullValue {
				sum += int64(cur)
				count++
			}
		}
	}

	if count > 0 {
		os = int32(math.Round(float64(sum) / float64(count)))
	}

	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			if i == 0 && j == 0 {
				continue
			}

			cur := values[i*nCols+j]
			if cur == nullValue {
				residuals = append(residuals, nullValue)
				continue
			}

			neighbor := predictorNeighbor(values, nCols, i, j)
			if neighbor == nullValue {
				residuals = append(residuals, wrap32(int64(cur)-int64(os)))
			} else {
				residuals = append(residuals, wrap32(int64(cur)-int64(neighbor)))
			}
		}
	}

	return seed, os, residuals
}

// Decode reverses Encode.
func (DifferencingWithNullsModel) Decode(seed, os int32, nRows, nCols int, residuals []int32) []int32 {
	values := make([]int32, nRows*nCols)
	values[0] = seed

	k := 0
	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			if i == 0 && j == 0 {
				continue
			}

			r := residuals[k]
			k++

			if r == nullValue {
				values[i*nCols+j] = nullValue
				continue
			}

			neighbor := predictorNeighbor(values, nCols, i, j)
			if neighbor == nullValue {
				values[i*nCols+j] = wrap32(int64(os) + int64(r))
			} else {
				values[i*nCols+j] = wrap32(int64(neighbor) + int64(r))
			}
		}
	}

	return values
}
