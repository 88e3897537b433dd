// Package huffman implements the canonical Huffman entropy back-end over an
// 8-bit symbol alphabet described in spec.md §4.3.
//
// The on-wire tree format is the contract other implementations must match:
//
//	8 bits          nLeafs-1
//	1 bit           rootFlag
//	if rootFlag:    8 bits of the single symbol (degenerate case, done)
//	else:           pre-order traversal; each node writes one bit
//	                (0 = internal, 1 = leaf); a leaf bit is followed by
//	                the leaf's 8-bit symbol.
//
// The decoder's in-memory tree representation (here, a pointer-linked binary
// tree) is an implementation detail; spec.md explicitly reserves the flat
// array layout used by other implementations as non-contractual.
package huffman
