package predictor

// interiorKernel predicts an interior cell (row>0, col>0) from its already
// known above, left, and above-left neighbors. Differencing, Triangle, and
// Linear differ only in this function; the boundary handling (row 0 and
// column 0) is identical across all three (spec.md §4.2).
type interiorKernel func(above, left, aboveLeft int32) int32

// encodeWithKernel runs the shared Differencing/Triangle/Linear topology:
// row 0 and column 0 predicted by simple left/above differencing, every
// other cell predicted by kernel.
func encodeWithKernel(nRows, nCols int, values []int32, kernel interiorKernel) (seed int32, residuals []int32) {
	seed = values[0]
	residuals = make([]int32, 0, nRows*nCols-1)

	at := func(i, j int) int32 { return values[i*nCols+j] }

	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			if i == 0 && j == 0 {
				continue
			}

			var predicted int32
			switch {
			case i == 0:
				predicted = at(0, j-1)
			case j == 0:
				predicted = at(i-1, 0)
			default:
				predicted = kernel(at(i-1, j), at(i, j-1), at(i-1, j-1))
			}

			residuals = append(residuals, wrap32(int64(at(i, j))-int64(predicted)))
		}
	}

	return seed, residuals
}

// decodeWithKernel reverses encodeWithKernel.
func decodeWithKernel(seed int32, nRows, nCols int, residuals []int32, kernel interiorKernel) []int32 {
	values := make([]int32, nRows*nCols)
	values[0] = seed

	at := func(i, j int) int32 { return values[i*nCols+j] }

	k := 0
	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			if i == 0 && j == 0 {
				continue
			}

			var predicted int32
			switch {
			case i == 0:
				predicted = at(0, j-1)
			case j == 0:
				predicted = at(i-1, 0)
			default:
				predicted = kernel(at(i-1, j), at(i, j-1), at(i-1, j-1))
			}

			values[i*nCols+j] = wrap32(int64(predicted) + int64(residuals[k]))
			k++
		}
	}

	return values
}
