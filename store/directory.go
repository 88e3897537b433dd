package store

import "github.com/gridfour/gvrs/endian"

// Directory is the tile directory: one 4-byte file offset per tile index,
// 0 meaning "not yet written" (spec.md §4.11). Offsets are stored divided
// by 8 (tiles are always written at an 8-byte-aligned position), matching
// the spec's note that this lets a 32-bit field address an extended-size
// file.
type Directory struct {
	entries []uint32
}

// NewDirectory allocates an empty directory for tileCount tiles.
func NewDirectory(tileCount int) *Directory {
	return &Directory{entries: make([]uint32, tileCount)}
}

// Get returns the byte offset of tile i's payload, or 0 if unwritten.
func (d *Directory) Get(i int) int64 {
	return int64(d.entries[i]) * 8
}

// Set records the byte offset of tile i's payload. offset must be a
// multiple of 8.
func (d *Directory) Set(i int, offset int64) {
	d.entries[i] = uint32(offset / 8)
}

// Len returns the number of tiles the directory covers.
func (d *Directory) Len() int { return len(d.entries) }

// Bytes serializes the directory as TR*TC little-endian uint32 entries.
func (d *Directory) Bytes() []byte {
	engine := endian.GetLittleEndianEngine()

	buf := make([]byte, 0, 4*len(d.entries))
	for _, e := range d.entries {
		buf = engine.AppendUint32(buf, e)
	}

	return buf
}

// ParseDirectory reads tileCount entries from the front of data.
func ParseDirectory(data []byte, tileCount int) (*Directory, int, error) {
	if len(data) < 4*tileCount {
		return nil, 0, errTruncated("tile directory")
	}

	engine := endian.GetLittleEndianEngine()

	d := NewDirectory(tileCount)
	for i := 0; i < tileCount; i++ {
		d.entries[i] = engine.Uint32(data[4*i : 4*i+4])
	}

	return d, 4 * tileCount, nil
}
