package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gridfour/gvrs/errs"
	"github.com/gridfour/gvrs/format"
)

// nullCodec is the uncompressed fallback codec (spec.md §7: a CompressionError
// from every other applicable codec degrades to a raw payload rather than
// failing the write). It never fails to apply and never shrinks a tile; its
// packing is tagged with format.PredictorNone so a reader can recognize an
// uncompressed payload the same way the predictor-based codecs tag their own
// predictor choice in their packing header.
type nullCodec struct{}

// NewNullCodec returns the raw/uncompressed fallback codec. It is registered
// last in NewCodecMaster so CodecMaster only falls back to it once every
// compressing codec has been tried and rejected.
func NewNullCodec() interface {
	IntegerCodec
	FloatCodec
} {
	return nullCodec{}
}

func (nullCodec) Name() string                         { return "Null" }
func (nullCodec) ImplementsIntegerEncoding() bool       { return true }
func (nullCodec) ImplementsFloatingPointEncoding() bool { return true }

func (nullCodec) EncodeInts(nRows, nCols int, values []int32) ([]byte, error) {
	packed := make([]byte, 1+len(values)*4)
	packed[0] = byte(format.PredictorNone)
	for i, v := range values {
		binary.LittleEndian.PutUint32(packed[1+i*4:], uint32(v))
	}

	return packed, nil
}

func (nullCodec) DecodeInts(packed []byte, nRows, nCols int) ([]int32, error) {
	n := nRows * nCols
	if len(packed) != 1+n*4 {
		return nil, fmt.Errorf("%w: Null: length mismatch", errs.ErrTruncatedPayload)
	}
	if format.PredictorCode(packed[0]) != format.PredictorNone {
		return nil, fmt.Errorf("%w: Null: unexpected predictor tag", errs.ErrFormatError)
	}

	values := make([]int32, n)
	for i := range values {
		values[i] = int32(binary.LittleEndian.Uint32(packed[1+i*4:]))
	}

	return values, nil
}

func (nullCodec) EncodeFloats(nRows, nCols int, values []float32) ([]byte, error) {
	packed := make([]byte, 1+len(values)*4)
	packed[0] = byte(format.PredictorNone)
	for i, v := range values {
		binary.LittleEndian.PutUint32(packed[1+i*4:], math.Float32bits(v))
	}

	return packed, nil
}

func (nullCodec) DecodeFloats(packed []byte, nRows, nCols int) ([]float32, error) {
	n := nRows * nCols
	if len(packed) != 1+n*4 {
		return nil, fmt.Errorf("%w: Null: length mismatch", errs.ErrTruncatedPayload)
	}
	if format.PredictorCode(packed[0]) != format.PredictorNone {
		return nil, fmt.Errorf("%w: Null: unexpected predictor tag", errs.ErrFormatError)
	}

	values := make([]float32, n)
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(packed[1+i*4:]))
	}

	return values, nil
}
