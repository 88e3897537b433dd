// Package errs defines the sentinel errors returned across the gvrs module.
//
// Call sites wrap a sentinel with context using fmt.Errorf("%w: ...", errs.ErrXxx, ...)
// so that errors.Is(err, errs.ErrXxx) keeps working after wrapping.
package errs

import "errors"

// Argument and format errors (spec.md §7: InvalidArgument, FormatError).
var (
	ErrInvalidArgument     = errors.New("gvrs: invalid argument")
	ErrRowOutOfRange       = errors.New("gvrs: row index out of range")
	ErrColumnOutOfRange    = errors.New("gvrs: column index out of range")
	ErrInvalidTileShape    = errors.New("gvrs: invalid tile shape")
	ErrInvalidGridShape    = errors.New("gvrs: invalid grid shape")
	ErrInvalidElementSpec  = errors.New("gvrs: invalid element specification")
	ErrInvalidCacheSize    = errors.New("gvrs: invalid tile cache size")
	ErrEmptyString         = errors.New("gvrs: string argument must not be empty")
	ErrStringTooLong       = errors.New("gvrs: string argument exceeds maximum length")
	ErrTooManyCodecs       = errors.New("gvrs: codec registry full")
	ErrInvalidMagic        = errors.New("gvrs: invalid file magic")
	ErrUnsupportedVersion  = errors.New("gvrs: unsupported file version")
	ErrMalformedVLR        = errors.New("gvrs: malformed variable-length record")
	ErrTruncatedPayload    = errors.New("gvrs: truncated tile payload")
	ErrUnknownPredictor    = errors.New("gvrs: unknown predictor code")
	ErrUnknownCodec        = errors.New("gvrs: unknown codec index")
	ErrInvalidHeaderSize   = errors.New("gvrs: invalid header size")
	ErrFormatError         = errors.New("gvrs: malformed file format")
)

// Concurrency (spec.md §3, §5: at-most-one writer per file).
var (
	ErrConcurrentWriter = errors.New("gvrs: file is already open for writing")
	ErrNotOpenForWrite  = errors.New("gvrs: file is not open for writing")
	ErrFileClosed       = errors.New("gvrs: file is closed")
)

// Compression (spec.md §7: CompressionError).
var (
	ErrCompressionFailed   = errors.New("gvrs: compression back-end failed")
	ErrDecompressionFailed = errors.New("gvrs: decompression back-end failed")
	ErrNoApplicableCodec   = errors.New("gvrs: no applicable codec for element type")
)

// I/O and integrity (spec.md §7: IoError, ChecksumMismatch).
var (
	ErrIndexStale       = errors.New("gvrs: sidecar index is stale")
	ErrChecksumMismatch = errors.New("gvrs: tile checksum mismatch")
	ErrTileNotFound     = errors.New("gvrs: tile index not found")
	ErrVLRNotFound      = errors.New("gvrs: variable-length record not found")
)
