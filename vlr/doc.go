// Package vlr implements the Variable-Length Record: an opaque, named
// metadata record modeled on the LAS VLR concept (spec.md §3, §6), plus the
// CSV-like codec-registry VLR a reader uses to reconstruct a file's codec
// list (spec.md §4.9).
package vlr
