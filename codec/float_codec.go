package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gridfour/gvrs/errs"
	"github.com/gridfour/gvrs/internal/pool"
)

// floatBitPlaneCodec implements the Float codec (spec.md §4.8): decomposes
// each float32 into sign, exponent, and three mantissa byte planes, delta-
// codes the mantissa planes in row-scan order, and Deflates the five
// resulting byte streams independently.
type floatBitPlaneCodec struct{}

// NewFloatCodec returns the IEEE-754 float-bit-plane codec.
func NewFloatCodec() FloatCodec { return floatBitPlaneCodec{} }

func (floatBitPlaneCodec) Name() string                         { return "FloatBitPlane" }
func (floatBitPlaneCodec) ImplementsIntegerEncoding() bool       { return false }
func (floatBitPlaneCodec) ImplementsFloatingPointEncoding() bool { return true }

func (floatBitPlaneCodec) EncodeFloats(nRows, nCols int, values []float32) ([]byte, error) {
	n := nRows * nCols
	if len(values) != n {
		return nil, fmt.Errorf("%w: codec: inconsistent tile shape", errs.ErrInvalidArgument)
	}

	signBits, putSignBits := pool.GetByteSlice((n + 7) / 8)
	defer putSignBits()
	exponents, putExponents := pool.GetByteSlice(n)
	defer putExponents()
	mh, putMh := pool.GetByteSlice(n) // high 7 bits of the 23-bit mantissa
	defer putMh()
	mm, putMm := pool.GetByteSlice(n) // middle 8 bits
	defer putMm()
	ml, putMl := pool.GetByteSlice(n) // low 8 bits
	defer putMl()

	for i := range signBits {
		signBits[i] = 0
	}

	for i, v := range values {
		bits := math.Float32bits(v)
		if bits>>31 != 0 {
			signBits[i/8] |= 1 << uint(i%8)
		}
		exponents[i] = byte(bits >> 23)
		mh[i] = byte((bits >> 16) & 0x7F)
		mm[i] = byte(bits >> 8)
		ml[i] = byte(bits)
	}

	deltaEncodeRows(mh, nRows, nCols)
	deltaEncodeRows(mm, nRows, nCols)
	deltaEncodeRows(ml, nRows, nCols)

	var out []byte
	for _, plane := range [][]byte{signBits, exponents, mh, mm, ml} {
		compressed, err := deflateBackend{}.Compress(plane)
		if err != nil {
			return nil, err
		}

		out = binary.LittleEndian.AppendUint32(out, uint32(len(compressed)))
		out = append(out, compressed...)
	}

	return out, nil
}

func (floatBitPlaneCodec) DecodeFloats(packed []byte, nRows, nCols int) ([]float32, error) {
	n := nRows * nCols

	planes := make([][]byte, 5)
	offset := 0
	for p := 0; p < 5; p++ {
		if len(packed) < offset+4 {
			return nil, fmt.Errorf("%w: FloatBitPlane: plane length", errs.ErrTruncatedPayload)
		}
		length := int(binary.LittleEndian.Uint32(packed[offset : offset+4]))
		offset += 4

		if len(packed) < offset+length {
			return nil, fmt.Errorf("%w: FloatBitPlane: plane body", errs.ErrTruncatedPayload)
		}

		raw, err := deflateBackend{}.Decompress(packed[offset : offset+length])
		if err != nil {
			return nil, err
		}
		planes[p] = raw
		offset += length
	}

	signBits, exponents, mh, mm, ml := planes[0], planes[1], planes[2], planes[3], planes[4]
	if len(exponents) != n || len(mh) != n || len(mm) != n || len(ml) != n || len(signBits) != (n+7)/8 {
		return nil, fmt.Errorf("%w: FloatBitPlane: plane size mismatch", errs.ErrFormatError)
	}

	deltaDecodeRows(mh, nRows, nCols)
	deltaDecodeRows(mm, nRows, nCols)
	deltaDecodeRows(ml, nRows, nCols)

	values := make([]float32, n)
	for i := range values {
		sign := uint32(0)
		if signBits[i/8]&(1<<uint(i%8)) != 0 {
			sign = 1
		}

		bits := (sign << 31) | (uint32(exponents[i]) << 23) | (uint32(mh[i]) << 16) | (uint32(mm[i]) << 8) | uint32(ml[i])
		values[i] = math.Float32frombits(bits)
	}

	return values, nil
}

// deltaEncodeRows replaces each byte (except the first byte of the plane)
// with its difference from the previous cell in row-scan order; each row's
// first cell is predicted from the prior row's first cell (spec.md §4.8
// step 3).
func deltaEncodeRows(plane []byte, nRows, nCols int) {
	for i := nRows - 1; i >= 0; i-- {
		for j := nCols - 1; j >= 0; j-- {
			idx := i*nCols + j
			var prev byte
			if j > 0 {
				prev = plane[idx-1]
			} else if i > 0 {
				prev = plane[idx-nCols]
			} else {
				continue
			}
			plane[idx] = plane[idx] - prev
		}
	}
}

// deltaDecodeRows reverses deltaEncodeRows in place.
func deltaDecodeRows(plane []byte, nRows, nCols int) {
	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			idx := i*nCols + j
			var prev byte
			if j > 0 {
				prev = plane[idx-1]
			} else if i > 0 {
				prev = plane[idx-nCols]
			} else {
				continue
			}
			plane[idx] = plane[idx] + prev
		}
	}
}
