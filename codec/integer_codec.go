package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/gridfour/gvrs/errs"
	"github.com/gridfour/gvrs/format"
	"github.com/gridfour/gvrs/m32"
	"github.com/gridfour/gvrs/predictor"
)

// integerHeaderSize is the 9-byte predictor header (spec.md §4.4's 10-byte
// table minus the codec-index byte, which CodecMaster prepends uniformly):
// predictor code (1) + seed (4) + nM32Bytes (4).
const integerHeaderSize = 9

// gridfourIntegerCodec is the Gridfour-Deflate (§4.5) / Gridfour-Huffman
// (§4.6) integer codec: predictor -> M32 -> entropy back-end, trying every
// predictor applicable to the tile's null-ness and keeping the smallest
// packing.
type gridfourIntegerCodec struct {
	backend entropyBackend
}

// NewGridfourDeflate returns the Deflate-backed Gridfour integer codec.
func NewGridfourDeflate() IntegerCodec { return &gridfourIntegerCodec{backend: deflateBackend{}} }

// NewGridfourHuffman returns the Huffman-backed Gridfour integer codec.
func NewGridfourHuffman() IntegerCodec { return &gridfourIntegerCodec{backend: huffmanBackend{}} }

func (c *gridfourIntegerCodec) Name() string {
	if c.backend.Backend() == format.BackendHuffman {
		return "GridfourHuffman"
	}

	return "GridfourDeflate"
}

func (c *gridfourIntegerCodec) ImplementsIntegerEncoding() bool       { return true }
func (c *gridfourIntegerCodec) ImplementsFloatingPointEncoding() bool { return false }

type candidate struct {
	code      format.PredictorCode
	seed      int32
	residuals []int32
	extra     []byte // extra header bytes following the standard 9-byte header
}

func hasNullValue(values []int32) bool {
	for _, v := range values {
		if v == format.IntMin {
			return true
		}
	}

	return false
}

func candidatesFor(nRows, nCols int, values []int32) []candidate {
	if hasNullValue(values) {
		m := predictor.DifferencingWithNullsModel{}
		seed, os, residuals := m.Encode(nRows, nCols, values)

		extra := make([]byte, 4)
		binary.LittleEndian.PutUint32(extra, uint32(os))

		return []candidate{{code: m.Code(), seed: seed, residuals: residuals, extra: extra}}
	}

	candidates := make([]candidate, 0, 3)
	for _, m := range predictor.Models() {
		seed, residuals := m.Encode(nRows, nCols, values)
		candidates = append(candidates, candidate{code: m.Code(), seed: seed, residuals: residuals})
	}

	return candidates
}

func (c *gridfourIntegerCodec) EncodeInts(nRows, nCols int, values []int32) ([]byte, error) {
	if nRows <= 0 || nCols <= 0 || len(values) != nRows*nCols {
		return nil, fmt.Errorf("%w: codec: inconsistent tile shape", errs.ErrInvalidArgument)
	}

	var best []byte

	for _, cand := range candidatesFor(nRows, nCols, values) {
		m32Bytes := m32.EncodeAll(make([]byte, 0, len(cand.residuals)*m32.MaxEncodedLen), cand.residuals)

		compressed, err := c.backend.Compress(m32Bytes)
		if err != nil {
			continue
		}

		packed := make([]byte, 0, integerHeaderSize+len(cand.extra)+len(compressed))
		packed = append(packed, byte(cand.code))
		packed = binary.LittleEndian.AppendUint32(packed, uint32(cand.seed))
		packed = binary.LittleEndian.AppendUint32(packed, uint32(len(m32Bytes)))
		packed = append(packed, cand.extra...)
		packed = append(packed, compressed...)

		if best == nil || len(packed) < len(best) {
			best = packed
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrCompressionFailed, c.Name())
	}

	return best, nil
}

func (c *gridfourIntegerCodec) DecodeInts(packed []byte, nRows, nCols int) ([]int32, error) {
	if len(packed) < integerHeaderSize {
		return nil, fmt.Errorf("%w: %s: header", errs.ErrTruncatedPayload, c.Name())
	}

	predictorCode := format.PredictorCode(packed[0])
	seed := int32(binary.LittleEndian.Uint32(packed[1:5]))
	nM32Bytes := int(binary.LittleEndian.Uint32(packed[5:9]))

	offset := integerHeaderSize

	var os int32
	if predictorCode == format.PredictorDifferencingWithNulls {
		if len(packed) < offset+4 {
			return nil, fmt.Errorf("%w: %s: OS field", errs.ErrTruncatedPayload, c.Name())
		}
		os = int32(binary.LittleEndian.Uint32(packed[offset : offset+4]))
		offset += 4
	}

	m32Bytes, err := c.backend.Decompress(packed[offset:])
	if err != nil {
		return nil, err
	}
	if len(m32Bytes) != nM32Bytes {
		return nil, fmt.Errorf("%w: %s: M32 byte count mismatch", errs.ErrFormatError, c.Name())
	}

	residuals := make([]int32, nRows*nCols-1)
	if _, ok := m32.DecodeAll(m32Bytes, residuals); !ok {
		return nil, fmt.Errorf("%w: %s: M32 residual stream", errs.ErrTruncatedPayload, c.Name())
	}

	switch predictorCode {
	case format.PredictorDifferencing:
		return predictor.DifferencingModel{}.Decode(seed, nRows, nCols, residuals), nil
	case format.PredictorTriangle:
		return predictor.TriangleModel{}.Decode(seed, nRows, nCols, residuals), nil
	case format.PredictorLinear:
		return predictor.LinearModel{}.Decode(seed, nRows, nCols, residuals), nil
	case format.PredictorDifferencingWithNulls:
		return predictor.DifferencingWithNullsModel{}.Decode(seed, os, nRows, nCols, residuals), nil
	default:
		return nil, fmt.Errorf("%w: %d", errs.ErrUnknownPredictor, predictorCode)
	}
}
