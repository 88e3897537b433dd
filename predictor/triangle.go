package predictor

import "github.com/gridfour/gvrs/format"

// TriangleModel predicts each interior cell (i,j) as
// z(i-1,j) + z(i,j-1) - z(i-1,j-1), computed in 64-bit and truncated to
// 32-bit two's-complement (spec.md §4.2 — the truncation is load-bearing,
// mirror it exactly).
type TriangleModel struct{}

func (TriangleModel) Code() format.PredictorCode { return format.PredictorTriangle }

func triangleKernel(above, left, aboveLeft int32) int32 {
	return wrap32(int64(above) + int64(left) - int64(aboveLeft))
}

func (TriangleModel) Encode(nRows, nCols int, values []int32) (int32, []int32) {
	return encodeWithKernel(nRows, nCols, values, triangleKernel)
}

func (TriangleModel) Decode(seed int32, nRows, nCols int, residuals []int32) []int32 {
	return decodeWithKernel(seed, nRows, nCols, residuals, triangleKernel)
}
