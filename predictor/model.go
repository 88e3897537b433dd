package predictor

import "github.com/gridfour/gvrs/format"

// Model is the shared shape for the predictors whose encode/decode need
// nothing beyond a single seed value: Differencing, Triangle, and Linear.
// DifferencingWithNulls and the Optimal variants carry extra per-tile header
// state (an optimal-seed value, or fitted coefficients) and are implemented
// with their own dedicated functions rather than forced into this interface.
type Model interface {
	Code() format.PredictorCode

	// Encode transforms a row-major nRows x nCols grid of values into a seed
	// (the value of cell (0,0)) and a residual stream in row-major scan
	// order, omitting the seed cell itself. len(residuals) == nRows*nCols-1.
	Encode(nRows, nCols int, values []int32) (seed int32, residuals []int32)

	// Decode reverses Encode. len(residuals) must equal nRows*nCols-1.
	Decode(seed int32, nRows, nCols int, residuals []int32) []int32
}

// Models lists the generic-interface predictors in a fixed order, used when
// a codec needs to try every applicable predictor and keep the smallest
// compressed result (spec.md §4.5).
func Models() []Model {
	return []Model{
		DifferencingModel{},
		TriangleModel{},
		LinearModel{},
	}
}
