package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/gridfour/gvrs/errs"
	"github.com/gridfour/gvrs/internal/pool"
)

// rawCompressor is a predictor-free byte compressor, shared by the raw LZ4
// and Zstd codecs (spec.md §4.9 registry entries beyond the predictor-based
// families).
type rawCompressor interface {
	compress(data []byte) ([]byte, error)
	decompress(data []byte) ([]byte, error)
}

// rawCodec packs a grid as raw little-endian bytes and hands them to a
// general-purpose byte compressor, skipping the predictor/M32 pipeline
// entirely. Registered alongside the Gridfour codecs so CodecMaster can
// pick whichever produces the smaller output (spec.md §4.9).
type rawCodec struct {
	name string
	c    rawCompressor
}

func (r *rawCodec) Name() string                         { return r.name }
func (r *rawCodec) ImplementsIntegerEncoding() bool       { return true }
func (r *rawCodec) ImplementsFloatingPointEncoding() bool { return true }

func (r *rawCodec) EncodeInts(nRows, nCols int, values []int32) ([]byte, error) {
	bb := pool.GetRawBuffer()
	defer pool.PutRawBuffer(bb)
	bb.Grow(len(values) * 4)
	bb.SetLength(len(values) * 4)
	raw := bb.Bytes()

	for i, v := range values {
		binary.LittleEndian.PutUint32(raw[i*4:], uint32(v))
	}

	return r.c.compress(raw)
}

func (r *rawCodec) DecodeInts(packed []byte, nRows, nCols int) ([]int32, error) {
	raw, err := r.c.decompress(packed)
	if err != nil {
		return nil, err
	}

	n := nRows * nCols
	if len(raw) != n*4 {
		return nil, fmt.Errorf("%w: %s: decompressed length mismatch", errs.ErrTruncatedPayload, r.name)
	}

	values := make([]int32, n)
	for i := range values {
		values[i] = int32(binary.LittleEndian.Uint32(raw[i*4:]))
	}

	return values, nil
}

func (r *rawCodec) EncodeFloats(nRows, nCols int, values []float32) ([]byte, error) {
	bb := pool.GetRawBuffer()
	defer pool.PutRawBuffer(bb)
	bb.Grow(len(values) * 4)
	bb.SetLength(len(values) * 4)
	raw := bb.Bytes()

	for i, v := range values {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(v))
	}

	return r.c.compress(raw)
}

func (r *rawCodec) DecodeFloats(packed []byte, nRows, nCols int) ([]float32, error) {
	raw, err := r.c.decompress(packed)
	if err != nil {
		return nil, err
	}

	n := nRows * nCols
	if len(raw) != n*4 {
		return nil, fmt.Errorf("%w: %s: decompressed length mismatch", errs.ErrTruncatedPayload, r.name)
	}

	values := make([]float32, n)
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}

	return values, nil
}

type lz4RawCompressor struct{}

func (lz4RawCompressor) compress(data []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(data))+4)
	binary.LittleEndian.PutUint32(dst, uint32(len(data)))

	var c lz4.Compressor
	n, err := c.CompressBlock(data, dst[4:])
	if err != nil {
		return nil, fmt.Errorf("%w: lz4raw: %v", errs.ErrCompressionFailed, err)
	}
	if n == 0 && len(data) > 0 {
		return nil, fmt.Errorf("%w: lz4raw: incompressible", errs.ErrCompressionFailed)
	}

	return dst[:4+n], nil
}

func (lz4RawCompressor) decompress(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: lz4raw: truncated length prefix", errs.ErrTruncatedPayload)
	}

	n := int(binary.LittleEndian.Uint32(data))
	dst := make([]byte, n)

	if n == 0 {
		return dst, nil
	}

	if _, err := lz4.UncompressBlock(data[4:], dst); err != nil {
		return nil, fmt.Errorf("%w: lz4raw: %v", errs.ErrDecompressionFailed, err)
	}

	return dst, nil
}

// NewLZ4RawCodec returns the predictor-free LZ4 raw codec.
func NewLZ4RawCodec() interface {
	IntegerCodec
	FloatCodec
} {
	return &rawCodec{name: "LZ4Raw", c: lz4RawCompressor{}}
}

type zstdRawCompressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func newZstdRawCompressor() zstdRawCompressor {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		panic(fmt.Sprintf("codec: zstd encoder init: %v", err))
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		panic(fmt.Sprintf("codec: zstd decoder init: %v", err))
	}

	return zstdRawCompressor{encoder: enc, decoder: dec}
}

func (z zstdRawCompressor) compress(data []byte) ([]byte, error) {
	return z.encoder.EncodeAll(data, nil), nil
}

func (z zstdRawCompressor) decompress(data []byte) ([]byte, error) {
	out, err := z.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstdraw: %v", errs.ErrDecompressionFailed, err)
	}

	return out, nil
}

// NewZstdRawCodec returns the predictor-free Zstd raw codec.
func NewZstdRawCodec() interface {
	IntegerCodec
	FloatCodec
} {
	return &rawCodec{name: "ZstdRaw", c: newZstdRawCompressor()}
}
