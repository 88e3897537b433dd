// Package gvrs provides a file-backed, tiled raster store with pluggable
// per-tile compression.
//
// A grid of R rows by C columns is partitioned into fixed-size tiles; each
// tile holds one or more named elements (32-bit integer, 16-bit short,
// 32-bit float, or a scaled-integer "integer coded float"). Tiles are
// compressed independently, trying every applicable codec and keeping
// whichever produced the fewest bytes, and cached in memory behind a
// bounded LRU with dirty write-back.
//
// # Basic usage
//
// Creating a file and writing a value:
//
//	elevation := element.NewFloatSpec("elevation")
//	fileSpec, _ := spec.New(1000, 800, 64, 64, []element.Spec{elevation})
//
//	f, _ := gvrs.Create("terrain.gvrs", fileSpec, 0, 0)
//	_ = f.WriteValueAsFloat64(10, 20, "elevation", 812.4)
//	_ = f.Close()
//
// Reopening and reading a block:
//
//	f, _ := gvrs.Open("terrain.gvrs", false, 0, 0)
//	block, _ := f.ReadBlockFloat64(0, 0, 64, 64, "elevation")
//	_ = f.Close()
//
// This package provides the convenience facade (File) around the lower-level
// spec, tile, store, and cache packages; those are exported for callers that
// need finer control than the facade exposes.
package gvrs

import (
	"github.com/gridfour/gvrs/element"
	"github.com/gridfour/gvrs/spec"
)

// NewGridSpec is a convenience wrapper over spec.New for the common case of
// building a file specification directly from element descriptors, mirroring
// this package's role as a thin facade over the lower-level packages.
func NewGridSpec(rows, cols, tileRows, tileCols int, elements ...element.Spec) (spec.FileSpec, error) {
	return spec.New(rows, cols, tileRows, tileCols, elements)
}
