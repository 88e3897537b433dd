package predictor

import "github.com/gridfour/gvrs/format"

// DifferencingModel predicts each interior cell from its left neighbor, and
// the first cell of each row from the cell directly above it (spec.md §4.2).
type DifferencingModel struct{}

func (DifferencingModel) Code() format.PredictorCode { return format.PredictorDifferencing }

func (DifferencingModel) Encode(nRows, nCols int, values []int32) (int32, []int32) {
	return encodeWithKernel(nRows, nCols, values, func(_, left, _ int32) int32 { return left })
}

func (DifferencingModel) Decode(seed int32, nRows, nCols int, residuals []int32) []int32 {
	return decodeWithKernel(seed, nRows, nCols, residuals, func(_, left, _ int32) int32 { return left })
}
