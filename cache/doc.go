// Package cache implements the tile cache (spec.md §4.12): a bounded LRU of
// decoded tiles sitting in front of the persistent store, with dirty
// write-back on eviction and an optional worker pool for parallel tile
// decode.
package cache
