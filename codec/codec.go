package codec

// IntegerCodec is the narrow interface every integer-tile codec implements
// (spec.md §9 REDESIGN FLAGS: "a narrow interface carrying four operations").
// Codecs that do not support integer encoding report false from
// ImplementsIntegerEncoding and are skipped by CodecMaster, so EncodeInts/
// DecodeInts on such a codec are never called.
type IntegerCodec interface {
	Name() string
	ImplementsIntegerEncoding() bool
	ImplementsFloatingPointEncoding() bool
	EncodeInts(nRows, nCols int, values []int32) ([]byte, error)
	DecodeInts(packed []byte, nRows, nCols int) ([]int32, error)
}

// FloatCodec is the analogous interface for IEEE-754 FLOAT tiles (spec.md
// §4.8).
type FloatCodec interface {
	Name() string
	ImplementsIntegerEncoding() bool
	ImplementsFloatingPointEncoding() bool
	EncodeFloats(nRows, nCols int, values []float32) ([]byte, error)
	DecodeFloats(packed []byte, nRows, nCols int) ([]float32, error)
}
