// Package lsq solves small dense linear systems by Gaussian elimination with
// partial pivoting. It generalizes the teacher's regression.fitPolynomial
// Cramer's-rule 3x3 normal-equations solve to an arbitrary N x N system, which
// the Optimal (Lewis-Smith) predictor needs for its (k+1) x (k+1)
// Lagrange-constrained coefficient fit (spec.md §4.2, §4.7).
package lsq
