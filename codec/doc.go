// Package codec implements the tile compression codecs of spec.md §4: the
// Gridfour-Deflate and Gridfour-Huffman integer codecs (predictor + M32 +
// entropy back-end), the Optimal-predictor codec (LSOP), the Float codec for
// IEEE-754 tiles, two predictor-free raw codecs (LZ4 and Zstd), and the
// CodecMaster registry that tries every applicable codec per tile and keeps
// the smallest output (§4.9).
package codec
