package huffman

import "container/heap"

// node is a binary Huffman tree node. Leaves carry a symbol; internal nodes
// carry only aggregated frequency and child pointers.
type node struct {
	symbol      byte
	isLeaf      bool
	freq        int
	left, right *node
	seq         int // insertion sequence, breaks heap ties deterministically
}

// nodeHeap is a min-heap over node.freq, with insertion order as a
// deterministic tie-breaker so repeated encodes of the same input always
// build byte-identical trees.
type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq < h[j].freq
	}

	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) {
	*h = append(*h, x.(*node))
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]

	return item
}

// buildTree constructs a canonical Huffman tree from symbol frequencies.
// freq must have length 256. Returns nil if every frequency is zero.
func buildTree(freq [256]int) *node {
	h := &nodeHeap{}
	seq := 0

	for sym := 0; sym < 256; sym++ {
		if freq[sym] == 0 {
			continue
		}

		*h = append(*h, &node{symbol: byte(sym), isLeaf: true, freq: freq[sym], seq: seq})
		seq++
	}

	if len(*h) == 0 {
		return nil
	}

	heap.Init(h)

	for h.Len() > 1 {
		a := heap.Pop(h).(*node)
		b := heap.Pop(h).(*node)
		parent := &node{freq: a.freq + b.freq, left: a, right: b, seq: seq}
		seq++
		heap.Push(h, parent)
	}

	return heap.Pop(h).(*node)
}

// countLeaves returns the number of leaf nodes in the tree rooted at n.
func countLeaves(n *node) int {
	if n == nil {
		return 0
	}
	if n.isLeaf {
		return 1
	}

	return countLeaves(n.left) + countLeaves(n.right)
}

// code is one symbol's bit-string code (MSB-first, as a (value, length)
// pair); buildCodeTable fills a table of them by walking the tree once.
type code struct {
	bits uint32
	len  int
}

func buildCodeTable(root *node) [256]code {
	var table [256]code
	if root == nil {
		return table
	}

	if root.isLeaf {
		// Degenerate single-symbol tree: the symbol's code is the empty
		// string in principle, but every encoded position is implicit
		// (nSymbols drives decode), so no body bits are ever written.
		return table
	}

	var walk func(n *node, bits uint32, depth int)
	walk = func(n *node, bits uint32, depth int) {
		if n.isLeaf {
			table[n.symbol] = code{bits: bits, len: depth}
			return
		}

		walk(n.left, bits<<1, depth+1)
		walk(n.right, (bits<<1)|1, depth+1)
	}
	walk(root, 0, 0)

	return table
}
