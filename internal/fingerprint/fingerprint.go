// Package fingerprint computes a content fingerprint for a tile payload, used
// by the tile store to detect a corrupted or truncated read (spec.md §7
// ChecksumError). Adapted from internal/hash's xxHash64 string wrapper,
// generalized to arbitrary byte payloads since tile payloads are binary, not
// strings.
package fingerprint

import "github.com/cespare/xxhash/v2"

// Of returns the xxHash64 fingerprint of a tile payload.
func Of(payload []byte) uint64 {
	return xxhash.Sum64(payload)
}
