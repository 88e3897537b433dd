package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gridfour/gvrs/endian"
	"github.com/gridfour/gvrs/errs"
	"github.com/gridfour/gvrs/format"
)

// indexHeaderSize is the fixed prefix of a .gvrx sidecar index file: magic
// (12) + version major/minor (2) + reserved (2) + data file's
// TimeLastModified (8) + data file's UUID (16).
const indexHeaderSize = format.MagicSize + 2 + 2 + 8 + 16

// IndexFile mirrors a data file's tile directory in a separate .gvrx file,
// so reopening a large store doesn't require rebuilding the directory from
// the main file's tile-store section (spec.md §4.11, §6). It is valid only
// as long as its stamped modification time and UUID still match the data
// file's current header; a stale index is a cache miss, not a format error.
type IndexFile struct {
	VersionMajor uint8
	VersionMinor uint8

	DataTimeLastModified int64
	DataUUID             uuid.UUID

	Directory *Directory

	// PayloadAreaEnd caches the allocator's append cursor at the moment the
	// index was written, so a reopen that trusts the index can skip the
	// payload-area scan that would otherwise be needed to recover it
	// (spec.md §4.11's "rebuild the directory if the index file is
	// absent/stale" fast path).
	PayloadAreaEnd int64
}

// WriteTilePositionsToIndexFile serializes an IndexFile mirroring header's
// identity, directory's current contents, and the allocator's current
// payload-area end.
func WriteTilePositionsToIndexFile(file RandomAccessFile, header Header, dataUUID uuid.UUID, directory *Directory, payloadAreaEnd int64) error {
	idx := IndexFile{
		VersionMajor:         format.FormatVersionMajor,
		VersionMinor:         format.FormatVersionMinor,
		DataTimeLastModified: header.TimeLastModified,
		DataUUID:             dataUUID,
		Directory:            directory,
		PayloadAreaEnd:       payloadAreaEnd,
	}

	if err := file.Truncate(0); err != nil {
		return fmt.Errorf("store: index truncate: %w", err)
	}

	if _, err := file.WriteAt(idx.Bytes(), 0); err != nil {
		return err
	}

	return file.Sync()
}

// ReadTilePositionsFromIndexFile reads and validates a sidecar index file
// against the data file's current TimeLastModified/UUID, returning
// errs.ErrIndexStale if it no longer matches (spec.md §4.11's "stale index
// forces a rebuild" rule). On success it returns the cached directory and
// payload-area end, letting the caller skip rebuilding either from the data
// file itself.
func ReadTilePositionsFromIndexFile(file RandomAccessFile, size int64, header Header, dataUUID uuid.UUID, tileCount int) (*Directory, int64, error) {
	buf := make([]byte, size)
	if _, err := file.ReadAt(buf, 0); err != nil {
		return nil, 0, fmt.Errorf("%w: store: %v", errs.ErrTruncatedPayload, err)
	}

	idx, _, err := ParseIndexFile(buf, tileCount)
	if err != nil {
		return nil, 0, err
	}

	if idx.DataTimeLastModified != header.TimeLastModified || idx.DataUUID != dataUUID {
		return nil, 0, fmt.Errorf("%w: store: index file out of sync with data file", errs.ErrIndexStale)
	}

	return idx.Directory, idx.PayloadAreaEnd, nil
}

// Bytes serializes the index header followed by the directory.
func (idx IndexFile) Bytes() []byte {
	engine := endian.GetLittleEndianEngine()

	buf := make([]byte, indexHeaderSize)
	copy(buf[0:format.MagicSize], format.IndexMagic)
	buf[format.MagicSize] = idx.VersionMajor
	buf[format.MagicSize+1] = idx.VersionMinor
	// 2 reserved bytes left zero

	engine.PutUint64(buf[format.MagicSize+4:format.MagicSize+12], uint64(idx.DataTimeLastModified))

	idBytes, _ := idx.DataUUID.MarshalBinary()
	copy(buf[format.MagicSize+12:format.MagicSize+28], idBytes)

	buf = append(buf, idx.Directory.Bytes()...)
	buf = engine.AppendUint64(buf, uint64(idx.PayloadAreaEnd))

	return buf
}

// ParseIndexFile reads an IndexFile from data, returning the number of bytes
// consumed. tileCount must match the data file's current tile count; a
// mismatch (e.g. the data file's grid shape changed) is reported the same
// way a stale index is.
func ParseIndexFile(data []byte, tileCount int) (IndexFile, int, error) {
	if len(data) < indexHeaderSize {
		return IndexFile{}, 0, fmt.Errorf("%w: store: truncated index header", errs.ErrTruncatedPayload)
	}

	if string(data[0:format.MagicSize]) != format.IndexMagic {
		return IndexFile{}, 0, fmt.Errorf("%w: store: bad index magic", errs.ErrInvalidMagic)
	}

	engine := endian.GetLittleEndianEngine()

	idx := IndexFile{
		VersionMajor: data[format.MagicSize],
		VersionMinor: data[format.MagicSize+1],
	}
	if idx.VersionMajor != format.FormatVersionMajor {
		return IndexFile{}, 0, fmt.Errorf("%w: store: index version %d.%d", errs.ErrUnsupportedVersion, idx.VersionMajor, idx.VersionMinor)
	}

	idx.DataTimeLastModified = int64(engine.Uint64(data[format.MagicSize+4 : format.MagicSize+12]))

	id, err := uuid.FromBytes(data[format.MagicSize+12 : format.MagicSize+28])
	if err != nil {
		return IndexFile{}, 0, fmt.Errorf("%w: store: index UUID: %v", errs.ErrFormatError, err)
	}
	idx.DataUUID = id

	directory, n, err := ParseDirectory(data[indexHeaderSize:], tileCount)
	if err != nil {
		return IndexFile{}, 0, fmt.Errorf("%w: store: index %v", errs.ErrIndexStale, err)
	}
	idx.Directory = directory

	offset := indexHeaderSize + n
	if len(data) < offset+8 {
		return IndexFile{}, 0, fmt.Errorf("%w: store: truncated index payload-area-end", errs.ErrTruncatedPayload)
	}
	idx.PayloadAreaEnd = int64(engine.Uint64(data[offset : offset+8]))
	offset += 8

	return idx, offset, nil
}
