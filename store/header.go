package store

import (
	"fmt"

	"github.com/gridfour/gvrs/endian"
	"github.com/gridfour/gvrs/errs"
	"github.com/gridfour/gvrs/format"
)

// Header is the fixed 40-byte prefix of a .gvrs data file (spec.md §4.11).
type Header struct {
	VersionMajor uint8
	VersionMinor uint8

	// TimeLastModified is an epoch-millisecond timestamp, updated at close.
	TimeLastModified int64
	// TimeOpenedForWriting is 0 when the file is not currently open for
	// writing; a non-zero value is the cross-process write-exclusion
	// mechanism (spec.md §5).
	TimeOpenedForWriting int64
	// TileStoreSectionOffset is the file offset of the tile-store section
	// (directory + free-space map + payloads), immediately after the
	// serialized specification and its padding.
	TileStoreSectionOffset int64
}

// Bytes serializes the header per spec.md §4.11's byte table.
func (h Header) Bytes() []byte {
	engine := endian.GetLittleEndianEngine()

	buf := make([]byte, format.DataHeaderSize)
	copy(buf[0:12], format.DataMagic)
	buf[12] = h.VersionMajor
	buf[13] = h.VersionMinor
	// bytes 14-15 reserved, left zero
	engine.PutUint64(buf[16:24], uint64(h.TimeLastModified))
	engine.PutUint64(buf[24:32], uint64(h.TimeOpenedForWriting))
	engine.PutUint64(buf[32:40], uint64(h.TileStoreSectionOffset))

	return buf
}

// ParseHeader validates the magic/version and reads the header's remaining
// fields (spec.md §4.15: "fatal if open-for-writing time is non-zero on
// open" is left to the caller, since that check depends on the requested
// open mode, not the header alone).
func ParseHeader(data []byte) (Header, error) {
	if len(data) < format.DataHeaderSize {
		return Header{}, fmt.Errorf("%w: store: truncated header", errs.ErrTruncatedPayload)
	}

	if string(data[0:12]) != format.DataMagic {
		return Header{}, fmt.Errorf("%w: store: bad magic", errs.ErrInvalidMagic)
	}

	engine := endian.GetLittleEndianEngine()

	h := Header{
		VersionMajor: data[12],
		VersionMinor: data[13],
	}
	if h.VersionMajor != format.FormatVersionMajor {
		return Header{}, fmt.Errorf("%w: store: version %d.%d", errs.ErrUnsupportedVersion, h.VersionMajor, h.VersionMinor)
	}

	h.TimeLastModified = int64(engine.Uint64(data[16:24]))
	h.TimeOpenedForWriting = int64(engine.Uint64(data[24:32]))
	h.TileStoreSectionOffset = int64(engine.Uint64(data[32:40]))

	return h, nil
}
