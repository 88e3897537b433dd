// Package spec defines FileSpec, the immutable description of
// a raster file's grid/tile geometry, element layout, and codec list
// (spec.md §3), plus CoordinateMapper, the affine row/column <-> real-world
// coordinate contract spec.md treats as an opaque external collaborator.
package spec
