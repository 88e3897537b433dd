// Package store implements the tile store: the persistent layout of a .gvrs
// data file (header, serialized specification, tile directory, free-space
// map, tile payloads, and variable-length records) plus its .gvrx sidecar
// index file (spec.md §4.11, §6).
package store
