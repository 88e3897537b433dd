// Package format defines the small, dependency-free constants shared across
// the gvrs module: element types, null sentinels, predictor codes, and the
// on-disk magic/version numbers from spec.md §4.11 and §6.
package format

import "math"

// ElementType identifies the storage representation of one tile element.
type ElementType uint8

const (
	// ElementInteger is a 32-bit signed integer element.
	ElementInteger ElementType = 0x1
	// ElementShort is a 16-bit signed integer element.
	ElementShort ElementType = 0x2
	// ElementFloat is an IEEE-754 binary32 element.
	ElementFloat ElementType = 0x3
	// ElementIntegerCodedFloat stores a float as a scaled int32 (spec.md §3).
	ElementIntegerCodedFloat ElementType = 0x4
)

// String implements fmt.Stringer.
func (e ElementType) String() string {
	switch e {
	case ElementInteger:
		return "Integer"
	case ElementShort:
		return "Short"
	case ElementFloat:
		return "Float"
	case ElementIntegerCodedFloat:
		return "IntegerCodedFloat"
	default:
		return "Unknown"
	}
}

// IsFloatingPoint reports whether values of this element type are presented
// to callers as float64/float32, regardless of on-disk storage.
func (e ElementType) IsFloatingPoint() bool {
	return e == ElementFloat || e == ElementIntegerCodedFloat
}

// Null sentinels, spec.md §3 "Null sentinels".
const (
	// IntMin is the null sentinel for INTEGER and INTEGER_CODED_FLOAT storage.
	IntMin int32 = math.MinInt32
	// ShortMin is the null sentinel for SHORT storage.
	ShortMin int16 = math.MinInt16
)

// NullFloat32 is the null sentinel for FLOAT storage and for the float
// presentation of INTEGER_CODED_FLOAT elements.
var NullFloat32 = float32(math.NaN())

// PredictorCode identifies the predictor model used to produce a codec's
// residual stream (spec.md §4.2, used in the Deflate/Huffman packing header).
type PredictorCode uint8

const (
	// PredictorNone marks an uncompressed fallback payload (spec.md §7 CompressionError).
	PredictorNone PredictorCode = 0
	// PredictorDifferencing is the left/above difference predictor.
	PredictorDifferencing PredictorCode = 1
	// PredictorDifferencingWithNulls is Differencing with a null-aware seed reset.
	PredictorDifferencingWithNulls PredictorCode = 2
	// PredictorTriangle is the z(i-1,j)+z(i,j-1)-z(i-1,j-1) predictor.
	PredictorTriangle PredictorCode = 3
	// PredictorLinear is the left+above fixed-kernel predictor.
	PredictorLinear PredictorCode = 4
	// PredictorOptimal8 is the 8-coefficient Lewis-Smith optimal linear predictor.
	PredictorOptimal8 PredictorCode = 5
	// PredictorOptimal12 is the 12-coefficient Lewis-Smith optimal linear predictor.
	PredictorOptimal12 PredictorCode = 6
)

// String implements fmt.Stringer.
func (p PredictorCode) String() string {
	switch p {
	case PredictorNone:
		return "None"
	case PredictorDifferencing:
		return "Differencing"
	case PredictorDifferencingWithNulls:
		return "DifferencingWithNulls"
	case PredictorTriangle:
		return "Triangle"
	case PredictorLinear:
		return "Linear"
	case PredictorOptimal8:
		return "Optimal8"
	case PredictorOptimal12:
		return "Optimal12"
	default:
		return "Unknown"
	}
}

// CompressionBackend identifies the entropy back-end used by a codec packing
// header (spec.md §4.7's compressionType byte).
type CompressionBackend uint8

const (
	// BackendHuffman is the canonical Huffman entropy back-end (spec.md §4.3).
	BackendHuffman CompressionBackend = 0
	// BackendDeflate is the zlib-compatible DEFLATE entropy back-end (spec.md §4.4).
	BackendDeflate CompressionBackend = 1
)

// File layout constants, spec.md §4.11 and §6.
const (
	// DataMagic is the 12-byte magic prefix of a .gvrs data file.
	DataMagic = "gvrs raster "
	// IndexMagic is the 12-byte magic prefix of a .gvrx sidecar index file.
	IndexMagic = "gvrs index  "
	// MagicSize is the fixed width of the magic field.
	MagicSize = 12

	// FormatVersionMajor is the major version written by this implementation.
	FormatVersionMajor uint8 = 1
	// FormatVersionMinor is the minor version written by this implementation.
	FormatVersionMinor uint8 = 0

	// MaxCodecCount is the hard maximum on registered codecs (spec.md §9 Open
	// Question): the registry index is a single byte, 255 is reserved as the
	// practical ceiling, leaving 0xFF available as a sentinel.
	MaxCodecCount = 255
)

// DataHeaderSize is the size in bytes of the fixed prefix described in spec.md §4.11.
const DataHeaderSize = 40
