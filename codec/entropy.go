package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/gridfour/gvrs/errs"
	"github.com/gridfour/gvrs/format"
	"github.com/gridfour/gvrs/huffman"
)

// entropyBackend packs and unpacks a raw byte stream with a general-purpose
// entropy coder (spec.md §4.3 Huffman, §4.4 Deflate). Both Compress outputs
// are self-describing: DEFLATE's own end-of-stream signaling lets
// Decompress read to completion without an external length, and
// huffmanBackend prepends its own 4-byte length prefix ahead of the
// huffman-packed bits (huffman.Decode itself still requires an explicit
// symbol count — see huffman.Decode — this framing is the codec package's
// integration detail, not a change to that contract).
type entropyBackend interface {
	Backend() format.CompressionBackend
	Compress(data []byte) ([]byte, error)
	Decompress(packed []byte) ([]byte, error)
}

type deflateBackend struct{}

func (deflateBackend) Backend() format.CompressionBackend { return format.BackendDeflate }

func (deflateBackend) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("%w: deflate: %v", errs.ErrCompressionFailed, err)
	}

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("%w: deflate: %v", errs.ErrCompressionFailed, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: deflate: %v", errs.ErrCompressionFailed, err)
	}

	return buf.Bytes(), nil
}

func (deflateBackend) Decompress(packed []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(packed))
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: deflate: %v", errs.ErrDecompressionFailed, err)
	}

	return out, nil
}

type huffmanBackend struct{}

func (huffmanBackend) Backend() format.CompressionBackend { return format.BackendHuffman }

func (huffmanBackend) Compress(data []byte) ([]byte, error) {
	packed := huffman.Encode(data)

	out := make([]byte, 0, 4+len(packed))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(data)))
	out = append(out, packed...)

	return out, nil
}

func (huffmanBackend) Decompress(packed []byte) ([]byte, error) {
	if len(packed) < 4 {
		return nil, fmt.Errorf("%w: huffman: truncated length prefix", errs.ErrTruncatedPayload)
	}

	nSymbols := int(binary.LittleEndian.Uint32(packed))

	out, err := huffman.Decode(packed[4:], nSymbols)
	if err != nil {
		return nil, fmt.Errorf("%w: huffman: %v", errs.ErrDecompressionFailed, err)
	}

	return out, nil
}
