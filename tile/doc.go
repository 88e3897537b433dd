// Package tile implements the fixed-shape, fixed-type data container for one
// tile (spec.md §4.10): one buffer per element, bounds-free getValue/setValue
// accessors (the façade computes row/col-in-tile), and a dirty flag the
// cache consults for write-back.
package tile
