package predictor

import (
	"fmt"
	"math"

	"github.com/gridfour/gvrs/errs"
	"github.com/gridfour/gvrs/format"
	"github.com/gridfour/gvrs/lsq"
)

// offset is a causal (row, col) displacement from a cell being predicted:
// every offset refers to a neighbor that raster-scan decode order has
// already reconstructed by the time the current cell is reached.
type offset struct{ dr, dc int }

// stencil8 is the 8-point causal neighborhood for the Optimal8 predictor: a
// 3x3 block of already-decoded cells above and to the left of the target,
// excluding the target itself. It never looks to the right of the current
// column, so Optimal8 only needs margin cells on the first two rows and
// first two columns (spec.md §4.2).
//
// spec.md names the predictor's shape (persistence/triangle margins, a
// constrained least-squares interior fit over k neighbors tied together by
// a Lagrange multiplier row) but not the exact neighbor offsets; this is
// the reference implementation's unpublished detail. This concrete stencil
// is a considered choice satisfying every constraint the spec does state
// (causality, the asymmetric margin requirement between the 8- and
// 12-coefficient variants, and a (k+1)x(k+1) solvable system) and is
// recorded as an Open Question resolution in DESIGN.md.
var stencil8 = []offset{
	{-2, -2}, {-2, -1}, {-2, 0},
	{-1, -2}, {-1, -1}, {-1, 0},
	{0, -2}, {0, -1},
}

// stencil12 extends stencil8 with four neighbors to the right in the two
// prior rows, which is why the Optimal12 variant additionally needs margin
// cells on the last two columns (cells within 2 of the right edge cannot
// supply those neighbors).
var stencil12 = append(append([]offset(nil), stencil8...), offset{-2, 1}, offset{-2, 2}, offset{-1, 1}, offset{-1, 2})

func stencilFor(n int) []offset {
	if n == 12 {
		return stencil12
	}

	return stencil8
}

// rightMargin is how many trailing columns near the right edge cannot host
// a full stencil (0 for Optimal8, 2 for Optimal12).
func rightMargin(n int) int {
	if n == 12 {
		return 2
	}

	return 0
}

// OptimalModel implements the Lewis-Smith constrained least-squares linear
// predictor in its 8- and 12-coefficient variants (spec.md §4.2, §4.7).
type OptimalModel struct {
	N int // 8 or 12
}

func (m OptimalModel) Code() format.PredictorCode {
	if m.N == 12 {
		return format.PredictorOptimal12
	}

	return format.PredictorOptimal8
}

// isInterior reports whether (i,j) has a full stencil available, i.e. lies
// outside every margin band.
func (m OptimalModel) isInterior(i, j, nRows, nCols int) bool {
	rm := rightMargin(m.N)

	return i >= 2 && j >= 2 && j <= nCols-1-rm
}

// ResidualCounts returns how many residual values belong to the
// initializer stream and how many belong to the interior stream for a tile
// of the given shape. It depends only on geometry, so a decoder can compute
// it without the encoder having to store it (spec.md §4.7).
func (m OptimalModel) ResidualCounts(nRows, nCols int) (nInitializer, nInterior int) {
	total := nRows*nCols - 1

	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			if i == 0 && j == 0 {
				continue
			}
			if m.isInterior(i, j, nRows, nCols) {
				nInterior++
			}
		}
	}

	return total - nInterior, nInterior
}

// Encode fits the coefficients over every interior cell and returns the
// seed, the fitted float32 coefficients, and two residual streams in
// row-major scan order: initializerResiduals for margin cells (predicted by
// persistence or the Triangle kernel) and interiorResiduals for cells with a
// full stencil (predicted by the fitted coefficients). Keeping the two
// populations separate lets the LSOP codec entropy-code them independently,
// since their residual distributions differ (spec.md §4.7).
func (m OptimalModel) Encode(nRows, nCols int, values []int32) (seed int32, coeffs []float32, initializerResiduals []int32, interiorResiduals []int32, err error) {
	stencil := stencilFor(m.N)
	k := len(stencil)

	at := func(i, j int) int32 { return values[i*nCols+j] }

	// Build the normal equations: A (k x k) accumulates neighbor
	// cross-products, b (k) accumulates neighbor-times-target, both summed
	// over every interior sample.
	a := make([]float64, k*k)
	b := make([]float64, k)
	nSamples := 0

	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			if !m.isInterior(i, j, nRows, nCols) {
				continue
			}
			nSamples++

			z := make([]float64, k)
			for s, off := range stencil {
				z[s] = float64(at(i+off.dr, j+off.dc))
			}
			target := float64(at(i, j))

			for r := 0; r < k; r++ {
				b[r] += z[r] * target
				for c := 0; c < k; c++ {
					a[r*k+c] += z[r] * z[c]
				}
			}
		}
	}

	if nSamples < k+1 {
		return 0, nil, nil, nil, fmt.Errorf("%w: predictor: tile too small for Optimal%d (need %d interior samples, have %d)", errs.ErrInvalidArgument, m.N, k+1, nSamples)
	}

	// Augment with the Lagrange row/column tying the coefficients to
	// sum(u) = 1.
	n := k + 1
	sys := make([]float64, n*n)
	rhs := make([]float64, n)

	for r := 0; r < k; r++ {
		rhs[r] = b[r]
		for c := 0; c < k; c++ {
			sys[r*n+c] = a[r*k+c]
		}
		sys[r*n+k] = 1
		sys[k*n+r] = 1
	}
	rhs[k] = 1

	sol, err := lsq.Solve(sys, rhs, n)
	if err != nil {
		// A rank-deficient system (a constant or planar tile) has no unique
		// fit; use the Triangle weights (above + left - upper-left), which
		// sum to 1 and predict such tiles exactly.
		sol = make([]float64, n)
		for s, off := range stencil {
			switch off {
			case offset{-1, 0}, offset{0, -1}:
				sol[s] = 1
			case offset{-1, -1}:
				sol[s] = -1
			}
		}
	}

	coeffs = make([]float32, k)
	for i := 0; i < k; i++ {
		coeffs[i] = float32(sol[i])
	}

	seed = values[0]
	initializerResiduals = make([]int32, 0, nRows*nCols-1-nSamples)
	interiorResiduals = make([]int32, 0, nSamples)

	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			if i == 0 && j == 0 {
				continue
			}

			predicted := m.predictAt(values, nRows, nCols, i, j, coeffs)
			residual := wrap32(int64(at(i, j)) - int64(predicted))

			if m.isInterior(i, j, nRows, nCols) {
				interiorResiduals = append(interiorResiduals, residual)
			} else {
				initializerResiduals = append(initializerResiduals, residual)
			}
		}
	}

	return seed, coeffs, initializerResiduals, interiorResiduals, nil
}

// predictAt computes the prediction for (i,j) given already-decoded cells,
// dispatching to persistence, Triangle, or the fitted stencil depending on
// which margin band (i,j) falls in.
func (m OptimalModel) predictAt(values []int32, nRows, nCols, i, j int, coeffs []float32) int32 {
	at := func(r, c int) int32 { return values[r*nCols+c] }

	switch {
	case i == 0:
		return at(0, j-1)
	case j == 0:
		return at(i-1, 0)
	case !m.isInterior(i, j, nRows, nCols):
		return triangleKernel(at(i-1, j), at(i, j-1), at(i-1, j-1))
	default:
		var acc float32
		for s, off := range stencilFor(m.N) {
			acc += coeffs[s] * float32(at(i+off.dr, j+off.dc))
		}

		return wrap32(int64(math.Round(float64(acc))))
	}
}

// Decode reverses Encode, consuming initializerResiduals and
// interiorResiduals in the same scan order they were produced.
func (m OptimalModel) Decode(seed int32, coeffs []float32, nRows, nCols int, initializerResiduals, interiorResiduals []int32) []int32 {
	values := make([]int32, nRows*nCols)
	values[0] = seed

	initK, interiorK := 0, 0
	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			if i == 0 && j == 0 {
				continue
			}

			predicted := m.predictAt(values, nRows, nCols, i, j, coeffs)

			var residual int32
			if m.isInterior(i, j, nRows, nCols) {
				residual = interiorResiduals[interiorK]
				interiorK++
			} else {
				residual = initializerResiduals[initK]
				initK++
			}

			values[i*nCols+j] = wrap32(int64(predicted) + int64(residual))
		}
	}

	return values
}
