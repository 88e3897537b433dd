// Package predictor implements the deterministic transforms that turn a tile
// of integers into a seed plus a residual stream concentrated near zero
// (spec.md §4.2): Differencing, DifferencingWithNulls, Triangle, Linear, and
// the Optimal (Lewis-Smith) linear predictors.
//
// All arithmetic in the Differencing/Triangle/Linear family uses modular
// 32-bit two's-complement semantics, matching Go's native int32 overflow
// behavior; this is load-bearing, not incidental (spec.md §9 "Wrap-around
// integer arithmetic").
package predictor
