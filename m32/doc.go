// Package m32 implements the M32 variable-length signed-integer code used to
// serialize predictor residuals (spec.md §4.1).
//
// M32 is asymmetric: small-magnitude values (the common case for a well-chosen
// predictor's residuals) cost one byte, and the encoding favors compactness over
// a uniform bit width. Values occupy 1-6 bytes:
//
//	bytes   |value| range (inclusive)
//	1       0 ... 126
//	2       127 ... 254
//	3       255 ... 16,638
//	4       16,639 ... 2,113,790
//	5       2,113,791 ... 270,549,246
//	6       270,549,247 ... 2,147,483,647
//
// A one-byte code stores the value directly as a signed byte in [-126, 126].
// The signed bytes +127 and -127 are introducers for "multi-byte positive /
// negative value follows"; -128 is a dedicated null code for math.MinInt32.
//
// Encoding is deliberately allocation-free and performs no bounds checking in
// the hot path: callers size the destination to 6*nSymbols, matching the
// worst case, exactly as mebo's encoding package pre-sizes its output buffers
// before the varint loop.
package m32
