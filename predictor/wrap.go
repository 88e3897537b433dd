package predictor

// wrap32 truncates a 64-bit intermediate to 32-bit two's-complement
// semantics. Go's int32 conversion already wraps modularly, but this helper
// names the operation so callers read as deliberate, not accidental,
// truncation (spec.md §9 "Wrap-around integer arithmetic").
func wrap32(v int64) int32 {
	return int32(v)
}
