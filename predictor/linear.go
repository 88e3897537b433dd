package predictor

import (
	"math"

	"github.com/gridfour/gvrs/format"
)

// LinearModel shares Triangle's row-0/column-0 boundary handling but
// predicts interior cells with a different fixed kernel: the rounded
// average of the above and left neighbors.
//
// spec.md §4.2 describes this only as "left + above predictor" without an
// exact formula; a literal sum would roughly double the predicted
// magnitude and produce residuals larger than the raw values it is meant to
// shrink, so this implementation takes the kernel to mean the averaged
// two-neighbor linear predictor, a standard alternative to Triangle's
// plane-fit kernel.
type LinearModel struct{}

func (LinearModel) Code() format.PredictorCode { return format.PredictorLinear }

func linearKernel(above, left, _ int32) int32 {
	return wrap32(int64(math.Round(float64(int64(above)+int64(left)) / 2.0)))
}

func (LinearModel) Encode(nRows, nCols int, values []int32) (int32, []int32) {
	return encodeWithKernel(nRows, nCols, values, linearKernel)
}

func (LinearModel) Decode(seed int32, nRows, nCols int, residuals []int32) []int32 {
	return decodeWithKernel(seed, nRows, nCols, residuals, linearKernel)
}
