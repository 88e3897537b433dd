package element

import (
	"fmt"
	"math"

	"github.com/gridfour/gvrs/endian"
	"github.com/gridfour/gvrs/errs"
	"github.com/gridfour/gvrs/format"
)

// maxNameLen bounds an element's on-disk name, matching the VLR package's
// ASCII-field convention (spec.md §3, §6).
const maxNameLen = 64

// Spec describes one element of a tile: its storage type, on-disk name, and
// (for INTEGER_CODED_FLOAT) the scale/offset pair used to present a stored
// int32 as a float64 (spec.md §3: "value = intValue/scale + offset").
type Spec struct {
	Name   string
	Type   format.ElementType
	Scale  float64
	Offset float64
}

// NewIntegerSpec returns a plain INTEGER element spec.
func NewIntegerSpec(name string) Spec {
	return Spec{Name: name, Type: format.ElementInteger, Scale: 1, Offset: 0}
}

// NewShortSpec returns a plain SHORT element spec.
func NewShortSpec(name string) Spec {
	return Spec{Name: name, Type: format.ElementShort, Scale: 1, Offset: 0}
}

// NewFloatSpec returns a plain FLOAT element spec.
func NewFloatSpec(name string) Spec {
	return Spec{Name: name, Type: format.ElementFloat, Scale: 1, Offset: 0}
}

// NewIntegerCodedFloatSpec returns an INTEGER_CODED_FLOAT element spec with
// the given scale/offset.
func NewIntegerCodedFloatSpec(name string, scale, offset float64) Spec {
	return Spec{Name: name, Type: format.ElementIntegerCodedFloat, Scale: scale, Offset: offset}
}

// Validate checks the spec is well-formed, including spec.md §9's bound on
// element names borrowed from the VLR description field width.
func (s Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: element: empty name", errs.ErrEmptyString)
	}
	if len(s.Name) > maxNameLen {
		return fmt.Errorf("%w: element: name %q exceeds %d bytes", errs.ErrStringTooLong, s.Name, maxNameLen)
	}
	if s.Type == format.ElementIntegerCodedFloat && s.Scale == 0 {
		return fmt.Errorf("%w: element: scale must be non-zero", errs.ErrInvalidElementSpec)
	}

	return nil
}

// ToFloat64 converts a stored int32 to its presented float64 value,
// honoring the INT_MIN null sentinel (spec.md §3, §4.14).
func (s Spec) ToFloat64(stored int32) float64 {
	if stored == format.IntMin {
		return float64(format.NullFloat32)
	}

	return float64(stored)/s.Scale + s.Offset
}

// FromFloat64 converts a presented float64 back to its stored int32 form,
// mapping NaN to the null sentinel.
func (s Spec) FromFloat64(value float64) int32 {
	if value != value { // NaN
		return format.IntMin
	}

	return int32((value - s.Offset) * s.Scale)
}

// wireFixedSize is the fixed portion of a serialized Spec: 1-byte name
// length + 1-byte type + 8-byte scale + 8-byte offset. The variable-length
// name bytes are not counted here.
const wireFixedSize = 1 + 1 + 8 + 8

// Bytes serializes s for inclusion in a file specification record
// (spec.md §3's "element descriptors"). No on-disk format for this is given
// in the spec prose beyond the field list, so this package defines one:
// length-prefixed name, followed by type/scale/offset, little-endian
// throughout per spec.md §6.
func (s Spec) Bytes() []byte {
	engine := endian.GetLittleEndianEngine()

	buf := make([]byte, 0, wireFixedSize+len(s.Name))
	buf = append(buf, byte(len(s.Name)))
	buf = append(buf, s.Name...)
	buf = append(buf, byte(s.Type))
	buf = engine.AppendUint64(buf, math.Float64bits(s.Scale))
	buf = engine.AppendUint64(buf, math.Float64bits(s.Offset))

	return buf
}

// Parse reads a Spec from the front of data and returns the number of bytes
// consumed.
func Parse(data []byte) (Spec, int, error) {
	if len(data) < 1 {
		return Spec{}, 0, fmt.Errorf("%w: element: truncated name length", errs.ErrTruncatedPayload)
	}

	nameLen := int(data[0])
	offset := 1
	if len(data) < offset+nameLen+1+8+8 {
		return Spec{}, 0, fmt.Errorf("%w: element: truncated spec", errs.ErrTruncatedPayload)
	}

	name := string(data[offset : offset+nameLen])
	offset += nameLen

	elemType := format.ElementType(data[offset])
	offset++

	engine := endian.GetLittleEndianEngine()
	scale := math.Float64frombits(engine.Uint64(data[offset : offset+8]))
	offset += 8
	value := math.Float64frombits(engine.Uint64(data[offset : offset+8]))
	offset += 8

	return Spec{Name: name, Type: elemType, Scale: scale, Offset: value}, offset, nil
}
