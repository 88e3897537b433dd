package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gridfour/gvrs/errs"
	"github.com/gridfour/gvrs/format"
	"github.com/gridfour/gvrs/internal/pool"
	"github.com/gridfour/gvrs/m32"
	"github.com/gridfour/gvrs/predictor"
)

// lsopHeaderHead is the fixed portion of the LSOP header (spec.md §4.7)
// before the coefficients: nPredictors (1) + seed (4).
const lsopHeaderHead = 5

// lsopCodec implements the Optimal-predictor codec (LSOP, spec.md §4.7): a
// Lewis-Smith constrained least-squares linear predictor whose margin and
// interior residuals are entropy-coded as two independent streams.
//
// spec.md's header table stores nInitializerCodes/nInteriorCodes as int32
// fields immediately after the coefficients, but does not specify whether
// they count residual values or compressed bytes, nor how a decoder finds
// the boundary between the two back-to-back streams. This implementation
// resolves the ambiguity by storing each field as the COMPRESSED BYTE
// LENGTH of its stream — the only interpretation that lets a decoder slice
// the two streams apart without additional framing. The residual VALUE
// count each stream decodes to is not stored at all: it is reproducible
// from tile geometry alone (predictor.OptimalModel.ResidualCounts), since
// the margin/interior classification of every cell depends only on
// nRows/nCols/N, identically on encode and decode. See DESIGN.md.
type lsopCodec struct {
	n int // 8 or 12
}

// NewLSOP8 returns the 8-coefficient Optimal-predictor codec.
func NewLSOP8() IntegerCodec { return &lsopCodec{n: 8} }

// NewLSOP12 returns the 12-coefficient Optimal-predictor codec.
func NewLSOP12() IntegerCodec { return &lsopCodec{n: 12} }

func (c *lsopCodec) Name() string {
	if c.n == 12 {
		return "LSOP12"
	}

	return "LSOP8"
}

func (c *lsopCodec) ImplementsIntegerEncoding() bool       { return true }
func (c *lsopCodec) ImplementsFloatingPointEncoding() bool { return false }

func (c *lsopCodec) EncodeInts(nRows, nCols int, values []int32) ([]byte, error) {
	if nRows <= 0 || nCols <= 0 || len(values) != nRows*nCols {
		return nil, fmt.Errorf("%w: codec: inconsistent tile shape", errs.ErrInvalidArgument)
	}

	m := predictor.OptimalModel{N: c.n}
	seed, coeffs, initRes, interiorRes, err := m.Encode(nRows, nCols, values)
	if err != nil {
		return nil, err
	}

	initBuf := pool.GetRawBuffer()
	defer pool.PutRawBuffer(initBuf)
	initBuf.Grow(len(initRes) * m32.MaxEncodedLen)
	initM32 := m32.EncodeAll(initBuf.Bytes()[:0], initRes)

	interiorBuf := pool.GetRawBuffer()
	defer pool.PutRawBuffer(interiorBuf)
	interiorBuf.Grow(len(interiorRes) * m32.MaxEncodedLen)
	interiorM32 := m32.EncodeAll(interiorBuf.Bytes()[:0], interiorRes)

	var best []byte

	for _, backend := range []entropyBackend{huffmanBackend{}, deflateBackend{}} {
		initCompressed, err := backend.Compress(initM32)
		if err != nil {
			continue
		}
		interiorCompressed, err := backend.Compress(interiorM32)
		if err != nil {
			continue
		}

		header := make([]byte, 0, lsopHeaderHead+4*c.n+4+4+1)
		header = append(header, byte(c.n))
		header = binary.LittleEndian.AppendUint32(header, uint32(seed))
		for _, coeff := range coeffs {
			header = binary.LittleEndian.AppendUint32(header, math.Float32bits(coeff))
		}
		header = binary.LittleEndian.AppendUint32(header, uint32(len(initCompressed)))
		header = binary.LittleEndian.AppendUint32(header, uint32(len(interiorCompressed)))
		header = append(header, byte(backend.Backend()))

		packed := append(header, initCompressed...)
		packed = append(packed, interiorCompressed...)

		if best == nil || len(packed) < len(best) {
			best = packed
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrCompressionFailed, c.Name())
	}

	return best, nil
}

func (c *lsopCodec) DecodeInts(packed []byte, nRows, nCols int) ([]int32, error) {
	if len(packed) < lsopHeaderHead+4*c.n+9 {
		return nil, fmt.Errorf("%w: %s: header", errs.ErrTruncatedPayload, c.Name())
	}

	nPredictors := int(packed[0])
	if nPredictors != c.n {
		return nil, fmt.Errorf("%w: %s: nPredictors mismatch", errs.ErrFormatError, c.Name())
	}

	seed := int32(binary.LittleEndian.Uint32(packed[1:5]))

	offset := lsopHeaderHead
	coeffs := make([]float32, c.n)
	for i := 0; i < c.n; i++ {
		coeffs[i] = math.Float32frombits(binary.LittleEndian.Uint32(packed[offset : offset+4]))
		offset += 4
	}

	initLen := int(binary.LittleEndian.Uint32(packed[offset : offset+4]))
	offset += 4
	interiorLen := int(binary.LittleEndian.Uint32(packed[offset : offset+4]))
	offset += 4

	backendType := format.CompressionBackend(packed[offset])
	offset++

	var backend entropyBackend
	switch backendType {
	case format.BackendHuffman:
		backend = huffmanBackend{}
	case format.BackendDeflate:
		backend = deflateBackend{}
	default:
		return nil, fmt.Errorf("%w: %s: unknown entropy backend", errs.ErrFormatError, c.Name())
	}

	if len(packed) < offset+initLen+interiorLen {
		return nil, fmt.Errorf("%w: %s: stream bodies", errs.ErrTruncatedPayload, c.Name())
	}

	initCompressed := packed[offset : offset+initLen]
	interiorCompressed := packed[offset+initLen : offset+initLen+interiorLen]

	m := predictor.OptimalModel{N: c.n}
	nInit, nInterior := m.ResidualCounts(nRows, nCols)

	initM32, err := backend.Decompress(initCompressed)
	if err != nil {
		return nil, err
	}
	initRes := make([]int32, nInit)
	if nInit > 0 {
		if _, ok := m32.DecodeAll(initM32, initRes); !ok {
			return nil, fmt.Errorf("%w: %s: initializer residual stream", errs.ErrTruncatedPayload, c.Name())
		}
	}

	interiorM32, err := backend.Decompress(interiorCompressed)
	if err != nil {
		return nil, err
	}
	interiorRes := make([]int32, nInterior)
	if nInterior > 0 {
		if _, ok := m32.DecodeAll(interiorM32, interiorRes); !ok {
			return nil, fmt.Errorf("%w: %s: interior residual stream", errs.ErrTruncatedPayload, c.Name())
		}
	}

	return m.Decode(seed, coeffs, nRows, nCols, initRes, interiorRes), nil
}
