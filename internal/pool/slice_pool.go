package pool

import "sync"

// Typed slice pools for reuse of per-tile element buffers.
var (
	int32SlicePool = sync.Pool{
		New: func() any { return &[]int32{} },
	}
	float32SlicePool = sync.Pool{
		New: func() any { return &[]float32{} },
	}
	byteSlicePool = sync.Pool{
		New: func() any { return &[]byte{} },
	}
)

// GetInt32Slice retrieves and resizes an int32 slice from the pool.
//
// The returned slice has length equal to size. The caller must call the
// returned cleanup function (typically via defer) to return the slice.
func GetInt32Slice(size int) ([]int32, func()) {
	ptr, _ := int32SlicePool.Get().(*[]int32)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]int32, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { int32SlicePool.Put(ptr) }
}

// GetFloat32Slice retrieves and resizes a float32 slice from the pool.
func GetFloat32Slice(size int) ([]float32, func()) {
	ptr, _ := float32SlicePool.Get().(*[]float32)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]float32, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { float32SlicePool.Put(ptr) }
}

// GetByteSlice retrieves and resizes a byte slice from the pool.
func GetByteSlice(size int) ([]byte, func()) {
	ptr, _ := byteSlicePool.Get().(*[]byte)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]byte, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { byteSlicePool.Put(ptr) }
}
