package huffman

import (
	"fmt"

	"github.com/gridfour/gvrs/errs"
	"github.com/gridfour/gvrs/internal/bitio"
)

// Encode Huffman-codes data and returns the packed bit stream: tree
// description followed by the symbol codes, per spec.md §4.3.
func Encode(data []byte) []byte {
	var freq [256]int
	for _, b := range data {
		freq[b]++
	}

	root := buildTree(freq)

	w := bitio.NewWriter()
	defer w.Close()

	nLeafs := countLeaves(root)
	if nLeafs == 0 {
		// Empty input: write a degenerate single-symbol tree for symbol 0 so
		// the wire format stays well-formed; Decode with nSymbols=0 never
		// reads the body.
		w.WriteByte(0) // nLeafs-1 = 0 -> nLeafs = 1
		w.WriteBit(1)  // rootFlag
		w.WriteByte(0) // symbol

		return append([]byte(nil), w.Bytes()...)
	}

	w.WriteByte(byte(nLeafs - 1))

	if nLeafs == 1 {
		w.WriteBit(1)
		w.WriteByte(root.symbol)

		return append([]byte(nil), w.Bytes()...)
	}

	w.WriteBit(0)
	writePreorder(w, root)

	table := buildCodeTable(root)
	for _, b := range data {
		c := table[b]
		w.WriteBits(c.bits, c.len)
	}

	return append([]byte(nil), w.Bytes()...)
}

func writePreorder(w *bitio.Writer, n *node) {
	if n.isLeaf {
		w.WriteBit(1)
		w.WriteByte(n.symbol)

		return
	}

	w.WriteBit(0)
	writePreorder(w, n.left)
	writePreorder(w, n.right)
}

// Decode reads a Huffman-packed stream produced by Encode and reconstructs
// exactly nSymbols original bytes.
func Decode(packed []byte, nSymbols int) ([]byte, error) {
	r := bitio.NewReader(packed)

	nLeafsMinus1, ok := r.GetByte()
	if !ok {
		return nil, fmt.Errorf("%w: huffman: truncated nLeafs field", errs.ErrTruncatedPayload)
	}
	nLeafs := int(nLeafsMinus1) + 1

	rootFlag, ok := r.GetBit()
	if !ok {
		return nil, fmt.Errorf("%w: huffman: truncated root flag", errs.ErrTruncatedPayload)
	}

	if rootFlag == 1 {
		symbol, symOK := r.GetByte()
		if !symOK {
			return nil, fmt.Errorf("%w: huffman: truncated single symbol", errs.ErrTruncatedPayload)
		}

		out := make([]byte, nSymbols)
		for i := range out {
			out[i] = symbol
		}

		return out, nil
	}

	remaining := nLeafs
	root, err := readPreorder(r, &remaining)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, nSymbols)
	for len(out) < nSymbols {
		n := root
		for !n.isLeaf {
			bit, bitOK := r.GetBit()
			if !bitOK {
				return nil, fmt.Errorf("%w: huffman: truncated symbol stream", errs.ErrTruncatedPayload)
			}

			if bit == 0 {
				n = n.left
			} else {
				n = n.right
			}
		}
		out = append(out, n.symbol)
	}

	return out, nil
}

// readPreorder reconstructs the tree written by writePreorder. remaining
// tracks how many leaves are still expected and guards against a corrupt
// bit stream driving unbounded recursion.
func readPreorder(r *bitio.Reader, remaining *int) (*node, error) {
	bit, ok := r.GetBit()
	if !ok {
		return nil, fmt.Errorf("%w: huffman: truncated tree", errs.ErrTruncatedPayload)
	}

	if bit == 1 {
		if *remaining <= 0 {
			return nil, fmt.Errorf("%w: huffman: tree exceeds declared leaf count", errs.ErrFormatError)
		}
		*remaining--

		symbol, symOK := r.GetByte()
		if !symOK {
			return nil, fmt.Errorf("%w: huffman: truncated tree symbol", errs.ErrTruncatedPayload)
		}

		return &node{symbol: symbol, isLeaf: true}, nil
	}

	left, err := readPreorder(r, remaining)
	if err != nil {
		return nil, err
	}

	right, err := readPreorder(r, remaining)
	if err != nil {
		return nil, err
	}

	return &node{left: left, right: right}, nil
}
