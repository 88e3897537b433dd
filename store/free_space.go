package store

import (
	"sort"

	"github.com/gridfour/gvrs/endian"
)

// block is one reclaimed region of the file, available for reuse by a
// future WriteTile/AllocateNonTileRecord call (spec.md §4.11).
type block struct {
	offset int64
	length int64
}

// FreeSpaceMap tracks reclaimed blocks from tiles that outgrew their slot
// and were relocated (spec.md §4.11: "if bytes.len > oldCapacity, release
// the old block... and allocate a new block"). Allocation is first-fit over
// a list kept sorted by offset, with adjacent free blocks merged on release
// to resist fragmentation.
type FreeSpaceMap struct {
	blocks []block
}

// Allocate returns the offset of a free block of at least n bytes, removing
// (or shrinking) it from the map. ok is false if no free block is large
// enough, meaning the caller must append to the end of the file instead.
func (m *FreeSpaceMap) Allocate(n int64) (offset int64, ok bool) {
	for i, b := range m.blocks {
		if b.length >= n {
			offset = b.offset
			if b.length == n {
				m.blocks = append(m.blocks[:i], m.blocks[i+1:]...)
			} else {
				m.blocks[i] = block{offset: b.offset + n, length: b.length - n}
			}

			return offset, true
		}
	}

	return 0, false
}

// Release returns a block to the map, merging it with an adjacent free
// block on either side if one exists.
func (m *FreeSpaceMap) Release(offset, length int64) {
	if length <= 0 {
		return
	}

	merged := block{offset: offset, length: length}

	remaining := m.blocks[:0]
	for _, b := range m.blocks {
		switch {
		case b.offset+b.length == merged.offset:
			merged.offset = b.offset
			merged.length += b.length
		case merged.offset+merged.length == b.offset:
			merged.length += b.length
		default:
			remaining = append(remaining, b)
		}
	}

	remaining = append(remaining, merged)
	sort.Slice(remaining, func(i, j int) bool { return remaining[i].offset < remaining[j].offset })
	m.blocks = remaining
}

// Stats reports the free block count and total reclaimed bytes, a
// diagnostic companion to the allocator (not required by spec.md, but a
// natural addition within its scope).
func (m *FreeSpaceMap) Stats() (count int, totalBytes int64) {
	count = len(m.blocks)
	for _, b := range m.blocks {
		totalBytes += b.length
	}

	return count, totalBytes
}

// Bytes serializes the free-space map as a sequence of (offset,length)
// int64 pairs, little-endian, prefixed with a uint32 block count.
func (m *FreeSpaceMap) Bytes() []byte {
	engine := endian.GetLittleEndianEngine()

	buf := make([]byte, 0, 4+16*len(m.blocks))
	buf = engine.AppendUint32(buf, uint32(len(m.blocks)))
	for _, b := range m.blocks {
		buf = engine.AppendUint64(buf, uint64(b.offset))
		buf = engine.AppendUint64(buf, uint64(b.length))
	}

	return buf
}

// ParseFreeSpaceMap reads a FreeSpaceMap from the front of data, returning
// the number of bytes consumed.
func ParseFreeSpaceMap(data []byte) (*FreeSpaceMap, int, error) {
	engine := endian.GetLittleEndianEngine()

	if len(data) < 4 {
		return nil, 0, errTruncated("free-space map count")
	}

	n := int(engine.Uint32(data[0:4]))
	offset := 4

	m := &FreeSpaceMap{blocks: make([]block, 0, n)}
	for i := 0; i < n; i++ {
		if len(data) < offset+16 {
			return nil, 0, errTruncated("free-space map entry")
		}
		b := block{
			offset: int64(engine.Uint64(data[offset : offset+8])),
			length: int64(engine.Uint64(data[offset+8 : offset+16])),
		}
		m.blocks = append(m.blocks, b)
		offset += 16
	}

	return m, offset, nil
}
