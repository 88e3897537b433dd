// Package element describes the per-element layout of a tile: its storage
// type, on-disk name, and the scale/offset transform INTEGER_CODED_FLOAT
// elements use to present an int32 as a float64 (spec.md §3).
package element
