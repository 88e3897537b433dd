package gvrs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gridfour/gvrs/cache"
	"github.com/gridfour/gvrs/codec"
	"github.com/gridfour/gvrs/errs"
	"github.com/gridfour/gvrs/spec"
	"github.com/gridfour/gvrs/store"
	"github.com/gridfour/gvrs/vlr"
)

// lifecycleState is the façade's state machine (spec.md §4.15).
type lifecycleState int

const (
	stateClosed lifecycleState = iota
	stateOpenRead
	stateOpenWrite
)

// File is the raster file façade: the public entry point combining a
// persistent tile store with an in-memory tile cache (spec.md §4.13).
type File struct {
	mu sync.Mutex

	path      string
	indexPath string
	handle    *os.File

	spec   spec.FileSpec
	codecs *codec.CodecMaster
	store  *store.Store
	cache  *cache.Cache

	state lifecycleState
}

func indexPathFor(dataPath string) string {
	ext := filepath.Ext(dataPath)
	return strings.TrimSuffix(dataPath, ext) + ".gvrx"
}

func nowMillis() int64 { return time.Now().UnixMilli() }

// Create makes a new raster file at path, overwriting any existing file
// (spec.md §4.13 create), and opens it for writing. workers <= 1 makes the
// tile cache decode serially; workers > 1 lets ReadBlockFloat64 batch its
// covered-tile reads across a bounded parallel-decode worker pool.
func Create(path string, s spec.FileSpec, cacheCapacity int, workers int) (*File, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	handle, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("gvrs: create %s: %w", path, err)
	}

	codecs := codec.NewCodecMaster()
	s.CodecNames = codecs.Names()

	st, err := store.Create(handle, s)
	if err != nil {
		handle.Close()
		return nil, err
	}

	registry := vlr.EncodeRegistry(codecs.Names())
	if _, err := st.AllocateNonTileRecord(8, registry); err != nil {
		handle.Close()
		return nil, err
	}

	f := &File{
		path:      path,
		indexPath: indexPathFor(path),
		handle:    handle,
		spec:      s,
		codecs:    codecs,
		store:     st,
		state:     stateOpenWrite,
	}
	f.cache = cache.New(st, codecs, s.Elements, s.TileRows, s.TileCols, cacheResolveCapacity(s, cacheCapacity), true, resolveWorkers(workers))

	if err := f.stampOpenedForWriting(); err != nil {
		handle.Close()
		return nil, err
	}

	return f, nil
}

func cacheResolveCapacity(s spec.FileSpec, requested int) int {
	if requested > 0 {
		return requested
	}

	return cache.LargeBound(s.TileCountRows(), s.TileCountCols())
}

// resolveWorkers normalizes a requested worker count to Cache's convention:
// anything <= 1 means serial decode.
func resolveWorkers(requested int) int {
	if requested < 1 {
		return 1
	}

	return requested
}

// Open opens an existing raster file (spec.md §4.13 open, §4.15): verifies
// magic/versions, fails if the file is already open for writing elsewhere,
// and, when writable, stamps the opened-for-writing time. workers <= 1
// makes the tile cache decode serially; workers > 1 lets ReadBlockFloat64
// batch its covered-tile reads across a bounded parallel-decode worker pool.
func Open(path string, writable bool, cacheCapacity int, workers int) (*File, error) {
	flags := os.O_RDONLY
	if writable {
		flags = os.O_RDWR
	}

	handle, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("gvrs: open %s: %w", path, err)
	}

	info, err := handle.Stat()
	if err != nil {
		handle.Close()
		return nil, err
	}

	// indexFile stays a nil store.RandomAccessFile (not a typed-nil *os.File)
	// when the sidecar is absent, so store.Open's nil check behaves.
	var indexFile store.RandomAccessFile
	var idxSize int64
	var idxHandle *os.File
	if idxInfo, statErr := os.Stat(indexPathFor(path)); statErr == nil {
		if h, openErr := os.Open(indexPathFor(path)); openErr == nil {
			idxHandle = h
			indexFile = h
			idxSize = idxInfo.Size()
		}
	}

	st, err := store.Open(handle, info.Size(), indexFile, idxSize)
	if idxHandle != nil {
		idxHandle.Close()
	}
	if err != nil {
		handle.Close()
		return nil, err
	}

	if st.HeaderSnapshot().TimeOpenedForWriting != 0 {
		handle.Close()
		return nil, fmt.Errorf("%w: gvrs: %s was not closed cleanly", errs.ErrConcurrentWriter, path)
	}

	codecs := codec.NewCodecMaster()
	if err := verifyCodecRegistry(st, codecs); err != nil {
		handle.Close()
		return nil, err
	}

	s := st.Spec()

	f := &File{
		path:      path,
		indexPath: indexPathFor(path),
		handle:    handle,
		spec:      s,
		codecs:    codecs,
		store:     st,
		state:     stateOpenRead,
	}
	f.cache = cache.New(st, codecs, s.Elements, s.TileRows, s.TileCols, cacheResolveCapacity(s, cacheCapacity), writable, resolveWorkers(workers))

	if writable {
		f.state = stateOpenWrite
		if err := f.stampOpenedForWriting(); err != nil {
			handle.Close()
			return nil, err
		}
	}

	return f, nil
}

func verifyCodecRegistry(st *store.Store, codecs *codec.CodecMaster) error {
	for _, r := range st.VariableLengthRecords() {
		if r.UserID != vlr.RegistryUserID {
			continue
		}

		names := vlr.DecodeRegistry(r)
		want := codecs.Names()
		if len(names) != len(want) {
			return fmt.Errorf("%w: gvrs: codec registry mismatch", errs.ErrFormatError)
		}
		for i := range names {
			if names[i] != want[i] {
				return fmt.Errorf("%w: gvrs: codec registry mismatch", errs.ErrFormatError)
			}
		}

		return nil
	}

	return fmt.Errorf("%w: gvrs: missing codec registry VLR", errs.ErrVLRNotFound)
}

func (f *File) stampOpenedForWriting() error {
	return f.store.SetOpenedForWriting(nowMillis())
}

// Flush forces every dirty resident tile to the store and syncs the
// underlying file handle, without changing lifecycle state (spec.md §4.13,
// §4.15).
func (f *File) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.flushLocked()
}

func (f *File) flushLocked() error {
	if f.state == stateClosed {
		return fmt.Errorf("%w: gvrs: file is closed", errs.ErrFileClosed)
	}
	if f.state != stateOpenWrite {
		return nil
	}

	if err := f.cache.Flush(); err != nil {
		return err
	}

	return f.store.Flush()
}

// Close flushes any dirty tiles, stamps the modification time, clears the
// opened-for-writing lock, writes the sidecar index, and closes the handle
// (spec.md §4.13 close, §4.15).
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == stateClosed {
		return nil
	}

	if err := f.flushLocked(); err != nil {
		return err
	}

	writable := f.state == stateOpenWrite
	if writable {
		if err := f.store.StampClosed(nowMillis()); err != nil {
			return err
		}

		idxFile, err := os.OpenFile(f.indexPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
		if err == nil {
			_ = store.WriteTilePositionsToIndexFile(idxFile, f.store.HeaderSnapshot(), f.spec.UUID, f.store.DirectorySnapshot(), f.store.PayloadAreaEndSnapshot())
			idxFile.Close()
		}
	}

	f.state = stateClosed
	f.codecs.ResetStats()

	return f.handle.Close()
}

// CodecStats returns the per-codec count of how many times each registered
// codec produced the winning packing since the file was opened (or since
// the last Close, which resets the counters).
func (f *File) CodecStats() []codec.Stat {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.codecs.Stats()
}
