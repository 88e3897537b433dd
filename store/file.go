package store

import "io"

// RandomAccessFile is the subset of *os.File the tile store needs. Defining
// it as an interface (rather than taking *os.File directly) keeps this
// package testable against an in-memory fake, the same separation the
// teacher draws between its encoding logic and an io.Writer destination.
type RandomAccessFile interface {
	io.ReaderAt
	io.WriterAt
	Truncate(size int64) error
	Sync() error
}
