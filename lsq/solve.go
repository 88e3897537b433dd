package lsq

import (
	"fmt"
	"math"

	"github.com/gridfour/gvrs/errs"
)

// Solve returns x such that a*x = b, where a is an n x n matrix stored
// row-major (len(a) == n*n) and b has length n. a and b are not modified;
// Solve copies them into scratch storage before eliminating.
//
// Solve uses Gaussian elimination with partial pivoting. It reports
// errs.ErrInvalidArgument if the dimensions are inconsistent, or a wrapped
// error if the matrix is singular (or too close to singular to trust).
func Solve(a []float64, b []float64, n int) ([]float64, error) {
	if n <= 0 || len(a) != n*n || len(b) != n {
		return nil, fmt.Errorf("%w: lsq: inconsistent dimensions n=%d len(a)=%d len(b)=%d", errs.ErrInvalidArgument, n, len(a), len(b))
	}

	// Augmented matrix, row-major, n rows by n+1 columns.
	m := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, n+1)
		copy(row, a[i*n:i*n+n])
		row[n] = b[i]
		m[i] = row
	}

	for col := 0; col < n; col++ {
		pivot := col
		maxAbs := math.Abs(m[col][col])
		for r := col + 1; r < n; r++ {
			if v := math.Abs(m[r][col]); v > maxAbs {
				maxAbs = v
				pivot = r
			}
		}

		if maxAbs < 1e-12 {
			return nil, fmt.Errorf("%w: lsq: singular or near-singular matrix at column %d", errs.ErrInvalidArgument, col)
		}

		if pivot != col {
			m[col], m[pivot] = m[pivot], m[col]
		}

		for r := col + 1; r < n; r++ {
			factor := m[r][col] / m[col][col]
			if factor == 0 {
				continue
			}
			for c := col; c <= n; c++ {
				m[r][c] -= factor * m[col][c]
			}
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := m[i][n]
		for j := i + 1; j < n; j++ {
			sum -= m[i][j] * x[j]
		}
		x[i] = sum / m[i][i]
	}

	return x, nil
}
