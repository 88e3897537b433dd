// Package pool provides sync.Pool-backed scratch buffers for tile encode/decode
// paths. Callers that acquire a buffer here return it before returning to their
// own caller; buffers are never retained across calls.
package pool

import (
	"io"
	"sync"
)

// Default and threshold sizes for tile-scratch byte buffers.
//
// TileBufferDefaultSize is sized for a single compressed tile payload in the
// common case (e.g. a 64x64 int32 tile is 16KiB raw, typically 1-8KiB compressed).
// TileBufferMaxThreshold bounds how large a buffer the pool will retain; tiles
// larger than this are still served, but their buffer is discarded instead of
// pooled once released.
const (
	TileBufferDefaultSize  = 1024 * 16  // 16KiB
	TileBufferMaxThreshold = 1024 * 512 // 512KiB

	// RawBufferDefaultSize sizes scratch used for whole uncompressed tiles
	// (row-major element arrays before/after predictor transforms).
	RawBufferDefaultSize  = 1024 * 64
	RawBufferMaxThreshold = 1024 * 1024 * 4
)

// ByteBuffer is a growable byte slice wrapper suited for append-heavy encoding.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// MustWrite appends data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)
}

// MustWriteByte appends a single byte to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWriteByte(b byte) {
	bb.Grow(1)
	bb.B = append(bb.B, b)
}

// Slice returns a slice of the buffer from start to end.
// Panics if the indices are out of bounds.
func (bb *ByteBuffer) Slice(start, end int) []byte {
	if start < 0 || end < start || end > cap(bb.B) {
		panic("pool: Slice invalid indices")
	}

	return bb.B[start:end]
}

// SetLength sets the length of the buffer to n.
// Panics if n is negative or greater than the capacity.
func (bb *ByteBuffer) SetLength(n int) {
	if n < 0 || n > cap(bb.B) {
		panic("pool: SetLength invalid length")
	}
	bb.B = bb.B[:n]
}

// Grow ensures the buffer can hold requiredBytes more bytes without reallocating.
//
// Growth strategy:
//   - Small buffers grow by TileBufferDefaultSize increments to reduce the number
//     of reallocations during the first few writes.
//   - Larger buffers grow by 25% of current capacity, which amortizes well for
//     tiles whose compressed size is hard to predict in advance.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := TileBufferDefaultSize
	if cap(bb.B) > 4*TileBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.MustWrite(data)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a sync.Pool-backed pool of ByteBuffers.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	tileDefaultPool = NewByteBufferPool(TileBufferDefaultSize, TileBufferMaxThreshold)
	rawDefaultPool  = NewByteBufferPool(RawBufferDefaultSize, RawBufferMaxThreshold)
)

// GetTileBuffer retrieves a ByteBuffer from the default compressed-tile-payload pool.
func GetTileBuffer() *ByteBuffer {
	return tileDefaultPool.Get()
}

// PutTileBuffer returns a ByteBuffer to the default compressed-tile-payload pool.
func PutTileBuffer(bb *ByteBuffer) {
	tileDefaultPool.Put(bb)
}

// GetRawBuffer retrieves a ByteBuffer from the default raw-tile-element pool.
func GetRawBuffer() *ByteBuffer {
	return rawDefaultPool.Get()
}

// PutRawBuffer returns a ByteBuffer to the default raw-tile-element pool.
func PutRawBuffer(bb *ByteBuffer) {
	rawDefaultPool.Put(bb)
}
