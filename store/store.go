package store

import (
	"errors"
	"fmt"

	"github.com/gridfour/gvrs/endian"
	"github.com/gridfour/gvrs/errs"
	"github.com/gridfour/gvrs/format"
	"github.com/gridfour/gvrs/internal/fingerprint"
	"github.com/gridfour/gvrs/spec"
	"github.com/gridfour/gvrs/vlr"
)

// metadataCapacity is the fixed on-disk region reserved for the serialized
// free-space map and VLR offset list, immediately following the tile
// directory. A file whose reclaimed-block count or VLR count would overflow
// this region returns errs.ErrInvalidCacheSize from Flush — see DESIGN.md's
// Open Question resolution for why this implementation gives the
// tile-store section a fixed location rather than relocating it on every
// flush.
const metadataCapacity = 8192

// tilePayloadOverhead is the length-prefix (4 bytes) + content fingerprint
// (8 bytes) every stored tile and VLR payload carries (not in spec.md's
// wire format; a supplemented integrity check — see DESIGN.md).
const tilePayloadOverhead = 4 + 8

// Store is the tile store: the persistent layout of one .gvrs data file
// (spec.md §4.11).
type Store struct {
	file RandomAccessFile

	header    Header
	spec      spec.FileSpec
	specBytes []byte

	directory *Directory
	freeSpace *FreeSpaceMap

	directoryOffset int64 // = header.TileStoreSectionOffset
	payloadAreaEnd  int64 // next append position for tiles/VLRs

	vlrs       []vlr.Record
	vlrOffsets []int64
}

func align8(n int64) int64 { return (n + 7) &^ 7 }

// Create initializes a new tile store on file, writing the header,
// serialized specification, empty directory, and empty free-space map
// (spec.md §4.13 "create").
func Create(file RandomAccessFile, s spec.FileSpec) (*Store, error) {
	if err := file.Truncate(0); err != nil {
		return nil, fmt.Errorf("store: truncate: %w", err)
	}

	specBytes := s.Bytes()

	engine := endian.GetLittleEndianEngine()
	specLenField := engine.AppendUint32(nil, uint32(len(specBytes)))

	directoryOffset := align8(int64(40 + 4 + len(specBytes)))
	tileCount := s.TileCount()

	st := &Store{
		file:            file,
		spec:            s,
		specBytes:       specBytes,
		directory:       NewDirectory(tileCount),
		freeSpace:       &FreeSpaceMap{},
		directoryOffset: directoryOffset,
		payloadAreaEnd:  directoryOffset + int64(4*tileCount) + metadataCapacity,
		header: Header{
			VersionMajor:           format.FormatVersionMajor,
			VersionMinor:           format.FormatVersionMinor,
			TileStoreSectionOffset: directoryOffset,
		},
	}

	if err := file.Truncate(st.payloadAreaEnd); err != nil {
		return nil, err
	}

	if _, err := file.WriteAt(st.header.Bytes(), 0); err != nil {
		return nil, err
	}
	if _, err := file.WriteAt(specLenField, 40); err != nil {
		return nil, err
	}
	if _, err := file.WriteAt(specBytes, 44); err != nil {
		return nil, err
	}
	if err := st.writeTileStoreSection(); err != nil {
		return nil, err
	}

	return st, nil
}

// writeTileStoreSection persists the directory, free-space map, and VLR
// offset list to their fixed location.
func (st *Store) writeTileStoreSection() error {
	engine := endian.GetLittleEndianEngine()

	fsBytes := st.freeSpace.Bytes()

	metadata := make([]byte, 0, len(fsBytes)+4+8*len(st.vlrOffsets))
	metadata = append(metadata, fsBytes...)
	metadata = engine.AppendUint32(metadata, uint32(len(st.vlrOffsets)))
	for _, off := range st.vlrOffsets {
		metadata = engine.AppendUint64(metadata, uint64(off))
	}

	if len(metadata) > metadataCapacity {
		return fmt.Errorf("%w: store: free-space map and VLR list exceed reserved capacity", errs.ErrInvalidCacheSize)
	}

	if _, err := st.file.WriteAt(st.directory.Bytes(), st.directoryOffset); err != nil {
		return err
	}

	metadataOffset := st.directoryOffset + int64(4*st.directory.Len())
	if _, err := st.file.WriteAt(metadata, metadataOffset); err != nil {
		return err
	}

	if _, err := st.file.WriteAt(st.header.Bytes(), 0); err != nil {
		return err
	}

	return nil
}

// ReadTile returns tile i's raw payload bytes, or ok=false if the directory
// entry is unset (spec.md §4.11 readTile).
func (st *Store) ReadTile(i int) (data []byte, ok bool, err error) {
	offset := st.directory.Get(i)
	if offset == 0 {
		return nil, false, nil
	}

	return st.readPayloadAt(offset)
}

func (st *Store) readPayloadAt(offset int64) ([]byte, bool, error) {
	engine := endian.GetLittleEndianEngine()

	head := make([]byte, tilePayloadOverhead)
	if _, err := st.file.ReadAt(head, offset); err != nil {
		return nil, false, fmt.Errorf("%w: store: %v", errs.ErrTruncatedPayload, err)
	}

	length := engine.Uint32(head[0:4])
	wantFingerprint := engine.Uint64(head[4:12])

	payload := make([]byte, length)
	if length > 0 {
		if _, err := st.file.ReadAt(payload, offset+tilePayloadOverhead); err != nil {
			return nil, false, fmt.Errorf("%w: store: %v", errs.ErrTruncatedPayload, err)
		}
	}

	if fingerprint.Of(payload) != wantFingerprint {
		return nil, false, fmt.Errorf("%w: store: tile payload", errs.ErrChecksumMismatch)
	}

	return payload, true, nil
}

// WriteTile stores bytes as tile i's payload (spec.md §4.11 writeTile): if a
// previous payload exists and the new one fits in its capacity, it is
// overwritten in place; otherwise the old block is released to the
// free-space map and a new one is allocated.
func (st *Store) WriteTile(i int, data []byte) error {
	offset, err := st.storePayload(st.directory.Get(i), data)
	if err != nil {
		return err
	}

	st.directory.Set(i, offset)

	return nil
}

// storePayload writes data as a length+fingerprint-prefixed payload, reusing
// the block at oldOffset in place when it still fits, and returns the block's
// final offset.
func (st *Store) storePayload(oldOffset int64, data []byte) (int64, error) {
	engine := endian.GetLittleEndianEngine()
	needed := int64(tilePayloadOverhead + len(data))

	if oldOffset != 0 {
		oldLenBuf := make([]byte, 4)
		if _, err := st.file.ReadAt(oldLenBuf, oldOffset); err != nil {
			return 0, fmt.Errorf("%w: store: %v", errs.ErrTruncatedPayload, err)
		}
		oldCapacity := int64(tilePayloadOverhead) + int64(engine.Uint32(oldLenBuf))

		if needed <= oldCapacity {
			if err := st.writePayloadAt(oldOffset, data); err != nil {
				return 0, err
			}

			return oldOffset, nil
		}

		st.freeSpace.Release(oldOffset, align8(oldCapacity))
	}

	// Free blocks are handed out in whole 8-byte units so every reused
	// offset stays 8-byte aligned, as the directory's offset/8 encoding needs.
	if reused, ok := st.freeSpace.Allocate(align8(needed)); ok {
		if err := st.writePayloadAt(reused, data); err != nil {
			return 0, err
		}

		return reused, nil
	}

	offset := align8(st.payloadAreaEnd)
	if err := st.writePayloadAt(offset, data); err != nil {
		return 0, err
	}
	st.payloadAreaEnd = offset + needed

	return offset, nil
}

func (st *Store) writePayloadAt(offset int64, data []byte) error {
	engine := endian.GetLittleEndianEngine()

	head := make([]byte, tilePayloadOverhead)
	engine.PutUint32(head[0:4], uint32(len(data)))
	engine.PutUint64(head[4:12], fingerprint.Of(data))

	if _, err := st.file.WriteAt(head, offset); err != nil {
		return err
	}
	if len(data) > 0 {
		if _, err := st.file.WriteAt(data, offset+tilePayloadOverhead); err != nil {
			return err
		}
	}

	return nil
}

// AllocateNonTileRecord reserves and writes a VLR, returning its offset
// (spec.md §4.11 allocateNonTileRecord, §3 VLR storage). alignment is
// currently always 8, matching tile payload alignment.
func (st *Store) AllocateNonTileRecord(alignment int64, record vlr.Record) (int64, error) {
	if alignment <= 0 {
		alignment = 8
	}

	recordBytes := record.Bytes()
	offset := ((st.payloadAreaEnd + alignment - 1) / alignment) * alignment

	if err := st.writePayloadAt(offset, recordBytes); err != nil {
		return 0, err
	}
	st.payloadAreaEnd = offset + int64(tilePayloadOverhead+len(recordBytes))

	st.vlrs = append(st.vlrs, record)
	st.vlrOffsets = append(st.vlrOffsets, offset)

	return offset, nil
}

// VariableLengthRecords returns every VLR registered through
// AllocateNonTileRecord or loaded by Open.
func (st *Store) VariableLengthRecords() []vlr.Record {
	return st.vlrs
}

// Flush persists the directory and free-space map and syncs the file
// (spec.md §4.13 flush forces all dirty tiles to disk; tile bytes
// themselves are written eagerly by WriteTile, so Flush's remaining
// responsibility is the tile-store section and the OS-level sync).
func (st *Store) Flush() error {
	if err := st.writeTileStoreSection(); err != nil {
		return err
	}

	return st.file.Sync()
}

// Spec returns the store's file specification.
func (st *Store) Spec() spec.FileSpec { return st.spec }

// HeaderSnapshot returns a copy of the store's current header, for the
// sidecar index file's staleness check (spec.md §4.11, §6).
func (st *Store) HeaderSnapshot() Header { return st.header }

// DirectorySnapshot returns the store's current tile directory, for writing
// a sidecar index file.
func (st *Store) DirectorySnapshot() *Directory { return st.directory }

// PayloadAreaEndSnapshot returns the allocator's current append cursor, for
// caching in a sidecar index file so a later Open can skip scanFileForTiles.
func (st *Store) PayloadAreaEndSnapshot() int64 { return st.payloadAreaEnd }

// SetOpenedForWriting stamps the header's cross-process write-exclusion
// timestamp and persists it immediately (spec.md §4.15: the lock must be
// visible to any other process opening the file before this writer makes
// further changes).
func (st *Store) SetOpenedForWriting(millis int64) error {
	st.header.TimeOpenedForWriting = millis

	_, err := st.file.WriteAt(st.header.Bytes(), 0)

	return err
}

// StampClosed records the final modification time and clears the
// opened-for-writing lock (spec.md §4.13 close).
func (st *Store) StampClosed(millis int64) error {
	st.header.TimeLastModified = millis
	st.header.TimeOpenedForWriting = 0

	_, err := st.file.WriteAt(st.header.Bytes(), 0)

	return err
}

// FreeSpaceStats exposes the free-space map's diagnostics (spec.md's
// Non-goals don't forbid it; see SPEC_FULL.md SUPPLEMENTED FEATURES).
func (st *Store) FreeSpaceStats() (count int, totalBytes int64) {
	return st.freeSpace.Stats()
}

// Open reconstructs a Store from an existing data file (spec.md §4.13
// "open": verify magic and versions, load VLRs). When indexFile is
// non-nil, Open first tries to trust its cached directory/payload-area-end
// (spec.md §4.11's sidecar fast path) rather than paying for a full
// payload-area scan; a missing, stale, or mismatched index is not an error
// here — Open silently falls back to scanFileForTiles, exactly as it would
// if indexFile were nil.
func Open(file RandomAccessFile, size int64, indexFile RandomAccessFile, indexSize int64) (*Store, error) {
	headerBuf := make([]byte, format.DataHeaderSize+4)
	if _, err := file.ReadAt(headerBuf, 0); err != nil {
		return nil, fmt.Errorf("%w: store: %v", errs.ErrTruncatedPayload, err)
	}

	header, err := ParseHeader(headerBuf[:format.DataHeaderSize])
	if err != nil {
		return nil, err
	}

	engine := endian.GetLittleEndianEngine()
	specLen := int(engine.Uint32(headerBuf[format.DataHeaderSize : format.DataHeaderSize+4]))

	specBuf := make([]byte, specLen)
	if _, err := file.ReadAt(specBuf, format.DataHeaderSize+4); err != nil {
		return nil, fmt.Errorf("%w: store: %v", errs.ErrTruncatedPayload, err)
	}

	fileSpec, err := spec.Parse(specBuf)
	if err != nil {
		return nil, err
	}

	tileCount := fileSpec.TileCount()
	directoryOffset := header.TileStoreSectionOffset

	directoryBuf := make([]byte, 4*tileCount)
	if _, err := file.ReadAt(directoryBuf, directoryOffset); err != nil {
		return nil, fmt.Errorf("%w: store: %v", errs.ErrTruncatedPayload, err)
	}
	directory, _, err := ParseDirectory(directoryBuf, tileCount)
	if err != nil {
		return nil, err
	}

	metadataOffset := directoryOffset + int64(4*tileCount)
	metadataBuf := make([]byte, metadataCapacity)
	if _, err := file.ReadAt(metadataBuf, metadataOffset); err != nil {
		return nil, fmt.Errorf("%w: store: %v", errs.ErrTruncatedPayload, err)
	}

	freeSpace, n, err := ParseFreeSpaceMap(metadataBuf)
	if err != nil {
		return nil, err
	}

	nVLRs := int(engine.Uint32(metadataBuf[n : n+4]))
	n += 4
	vlrOffsets := make([]int64, nVLRs)
	for i := 0; i < nVLRs; i++ {
		vlrOffsets[i] = int64(engine.Uint64(metadataBuf[n : n+8]))
		n += 8
	}

	st := &Store{
		file:            file,
		header:          header,
		spec:            fileSpec,
		specBytes:       specBuf,
		directory:       directory,
		freeSpace:       freeSpace,
		directoryOffset: directoryOffset,
		payloadAreaEnd:  metadataOffset + metadataCapacity,
		vlrOffsets:      vlrOffsets,
	}

	for _, off := range vlrOffsets {
		payload, _, err := st.readPayloadAt(off)
		if err != nil {
			return nil, err
		}
		record, _, err := vlr.Parse(payload)
		if err != nil {
			return nil, err
		}
		st.vlrs = append(st.vlrs, record)
	}

	if indexFile != nil && indexSize > 0 {
		if idxDirectory, idxPayloadAreaEnd, err := ReadTilePositionsFromIndexFile(indexFile, indexSize, header, fileSpec.UUID, tileCount); err == nil {
			st.directory = idxDirectory
			st.payloadAreaEnd = idxPayloadAreaEnd

			return st, nil
		}
	}

	if _, err := st.scanFileForTiles(size); err != nil {
		return nil, err
	}

	return st, nil
}

// scanFileForTiles walks the payload area from the end of the metadata
// region to the end of the file, re-validating every stored payload's
// length+fingerprint prefix. It is the fallback used when the sidecar index
// file is missing or stale (spec.md §4.11, §6): the sidecar only caches a
// copy of the directory for fast reopening, so the directory already
// embedded in the main file (loaded by Open) remains authoritative for tile
// positions. scanFileForTiles instead recovers payloadAreaEnd — the one
// piece of allocator state the format does not persist — and reports any
// payload whose fingerprint no longer matches its bytes.
func (st *Store) scanFileForTiles(fileSize int64) (corrupt []int64, err error) {
	offset := align8(st.directoryOffset + int64(4*st.directory.Len()) + metadataCapacity)

	for offset+tilePayloadOverhead <= fileSize {
		_, ok, perr := st.readPayloadAt(offset)
		if perr != nil {
			if errors.Is(perr, errs.ErrChecksumMismatch) {
				corrupt = append(corrupt, offset)
			} else {
				break
			}
		}
		_ = ok

		lengthBuf := make([]byte, 4)
		if _, rerr := st.file.ReadAt(lengthBuf, offset); rerr != nil {
			break
		}
		length := int64(endian.GetLittleEndianEngine().Uint32(lengthBuf))

		offset = align8(offset + tilePayloadOverhead + length)
	}

	// The walk stops early on bytes that are not a payload prefix (such as
	// the stale tail of a reused block); the append cursor is never placed
	// before the end of the file.
	if offset < fileSize {
		offset = fileSize
	}
	st.payloadAreaEnd = align8(offset)

	return corrupt, nil
}
