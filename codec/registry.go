package codec

import (
	"fmt"
	"sync/atomic"

	"github.com/gridfour/gvrs/errs"
)

// entry is one registered codec, tagged with the index it is written to and
// read from in a packed tile's leading byte (spec.md §4.9).
type entry struct {
	index   byte
	name    string
	integer IntegerCodec
	float   FloatCodec

	// selected counts how many times this codec produced the winning
	// packing, across both EncodeInts and EncodeFloats.
	selected atomic.Int64
}

// CodecMaster tries every codec applicable to a tile's element type and
// keeps the smallest result, prepending its registry index as the packing's
// first byte so a decoder can dispatch without guessing (spec.md §4.9).
//
// This mirrors the teacher's builtinCodecs registration/dispatch pattern
// (compress/codec.go's CreateCodec/GetCodec) generalized from "one codec per
// name" to "every codec applicable to this element type, keep the smallest".
type CodecMaster struct {
	entries []*entry
}

// NewCodecMaster builds the default registry: both Gridfour integer codecs,
// both LSOP variants, the Float codec, the two predictor-free raw codecs,
// and finally the uncompressed Null fallback, in a fixed, stable index
// order. Null is registered last so it is only ever selected once every
// compressing codec has been tried and failed to shrink the tile (spec.md
// §7: a degrade-to-raw-payload, not an encode failure).
func NewCodecMaster() *CodecMaster {
	raw32 := NewLZ4RawCodec()
	rawZstd := NewZstdRawCodec()
	null := NewNullCodec()

	cm := &CodecMaster{}
	cm.register("GridfourDeflate", NewGridfourDeflate(), nil)
	cm.register("GridfourHuffman", NewGridfourHuffman(), nil)
	cm.register("LSOP8", NewLSOP8(), nil)
	cm.register("LSOP12", NewLSOP12(), nil)
	cm.register("Float", nil, NewFloatCodec())
	cm.register("LZ4Raw", raw32, raw32)
	cm.register("ZstdRaw", rawZstd, rawZstd)
	cm.register("Null", null, null)

	return cm
}

func (cm *CodecMaster) register(name string, integer IntegerCodec, float FloatCodec) {
	cm.entries = append(cm.entries, &entry{
		index:   byte(len(cm.entries)),
		name:    name,
		integer: integer,
		float:   float,
	})
}

// Stat is one codec's selection count, in registry-index order.
type Stat struct {
	Name     string
	Selected int64
}

// Stats returns the per-codec count of how many times each registered codec
// produced the winning (smallest) packing across this CodecMaster's
// lifetime, in registry-index order.
func (cm *CodecMaster) Stats() []Stat {
	stats := make([]Stat, len(cm.entries))
	for i, e := range cm.entries {
		stats[i] = Stat{Name: e.name, Selected: e.selected.Load()}
	}

	return stats
}

// ResetStats zeroes every codec's selection count.
func (cm *CodecMaster) ResetStats() {
	for _, e := range cm.entries {
		e.selected.Store(0)
	}
}

// EncodeInts tries every registered codec that implements integer encoding
// and returns the smallest packing, with the winning codec's registry index
// prepended as the first byte.
func (cm *CodecMaster) EncodeInts(nRows, nCols int, values []int32) ([]byte, error) {
	var best []byte
	var bestEntry *entry

	for _, e := range cm.entries {
		if e.integer == nil || !e.integer.ImplementsIntegerEncoding() {
			continue
		}

		packed, err := e.integer.EncodeInts(nRows, nCols, values)
		if err != nil {
			continue
		}

		candidate := make([]byte, 0, 1+len(packed))
		candidate = append(candidate, e.index)
		candidate = append(candidate, packed...)

		if best == nil || len(candidate) < len(best) {
			best = candidate
			bestEntry = e
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: integer tile", errs.ErrNoApplicableCodec)
	}

	bestEntry.selected.Add(1)

	return best, nil
}

// DecodeInts reads the leading registry-index byte and dispatches to the
// matching codec's DecodeInts.
func (cm *CodecMaster) DecodeInts(packed []byte, nRows, nCols int) ([]int32, error) {
	e, rest, err := cm.lookup(packed)
	if err != nil {
		return nil, err
	}
	if e.integer == nil {
		return nil, fmt.Errorf("%w: codec %q does not implement integer decoding", errs.ErrUnknownCodec, e.name)
	}

	return e.integer.DecodeInts(rest, nRows, nCols)
}

// EncodeFloats is the floating-point analogue of EncodeInts.
func (cm *CodecMaster) EncodeFloats(nRows, nCols int, values []float32) ([]byte, error) {
	var best []byte
	var bestEntry *entry

	for _, e := range cm.entries {
		if e.float == nil || !e.float.ImplementsFloatingPointEncoding() {
			continue
		}

		packed, err := e.float.EncodeFloats(nRows, nCols, values)
		if err != nil {
			continue
		}

		candidate := make([]byte, 0, 1+len(packed))
		candidate = append(candidate, e.index)
		candidate = append(candidate, packed...)

		if best == nil || len(candidate) < len(best) {
			best = candidate
			bestEntry = e
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: float tile", errs.ErrNoApplicableCodec)
	}

	bestEntry.selected.Add(1)

	return best, nil
}

// DecodeFloats is the floating-point analogue of DecodeInts.
func (cm *CodecMaster) DecodeFloats(packed []byte, nRows, nCols int) ([]float32, error) {
	e, rest, err := cm.lookup(packed)
	if err != nil {
		return nil, err
	}
	if e.float == nil {
		return nil, fmt.Errorf("%w: codec %q does not implement float decoding", errs.ErrUnknownCodec, e.name)
	}

	return e.float.DecodeFloats(rest, nRows, nCols)
}

func (cm *CodecMaster) lookup(packed []byte) (*entry, []byte, error) {
	if len(packed) < 1 {
		return nil, nil, fmt.Errorf("%w: empty packing", errs.ErrTruncatedPayload)
	}

	index := packed[0]
	for _, e := range cm.entries {
		if e.index == index {
			return e, packed[1:], nil
		}
	}

	return nil, nil, fmt.Errorf("%w: registry index %d", errs.ErrUnknownCodec, index)
}

// Names returns the registered codec names in registry-index order, for
// serializing a GvrsCompressionCodecs VLR (spec.md §4.11).
func (cm *CodecMaster) Names() []string {
	names := make([]string, len(cm.entries))
	for i, e := range cm.entries {
		names[i] = e.name
	}

	return names
}
