package tile

import (
	"github.com/gridfour/gvrs/element"
	"github.com/gridfour/gvrs/format"
)

// elementBuffer is the per-element storage for one tile, abstracting over
// the three physical widths (int32, int16, float32) spec.md §3 allows
// behind a uniform int32/float64 presentation. A caller always reads/writes
// through getInt/setInt or getFloat/setFloat depending on
// spec.ElementType.IsFloatingPoint(); the buffer itself never validates
// which accessor pair is appropriate for its type, matching this package's
// "façade enforces bounds and types" division of labor (spec.md §4.10).
type elementBuffer interface {
	getInt(i int) int32
	setInt(i int, v int32)
	getFloat(i int) float64
	setFloat(i int, v float64)
}

func newElementBuffer(spec element.Spec, n int) elementBuffer {
	switch spec.Type {
	case format.ElementShort:
		buf := make([]int16, n)
		for i := range buf {
			buf[i] = format.ShortMin
		}

		return &shortBuffer{values: buf}
	case format.ElementFloat:
		buf := make([]float32, n)
		for i := range buf {
			buf[i] = format.NullFloat32
		}

		return &floatBuffer{values: buf}
	default: // ElementInteger, ElementIntegerCodedFloat
		buf := make([]int32, n)
		for i := range buf {
			buf[i] = format.IntMin
		}

		return &intBuffer{spec: spec, values: buf}
	}
}

// intBuffer backs INTEGER and INTEGER_CODED_FLOAT elements; the float
// accessors apply the element's scale/offset transform.
type intBuffer struct {
	spec   element.Spec
	values []int32
}

func (b *intBuffer) getInt(i int) int32  { return b.values[i] }
func (b *intBuffer) setInt(i int, v int32) { b.values[i] = v }
func (b *intBuffer) getFloat(i int) float64 { return b.spec.ToFloat64(b.values[i]) }
func (b *intBuffer) setFloat(i int, v float64) { b.values[i] = b.spec.FromFloat64(v) }

// shortBuffer backs SHORT elements.
type shortBuffer struct {
	values []int16
}

func (b *shortBuffer) getInt(i int) int32 { return int32(b.values[i]) }
func (b *shortBuffer) setInt(i int, v int32) {
	if v == format.IntMin {
		b.values[i] = format.ShortMin
		return
	}
	b.values[i] = int16(v)
}
func (b *shortBuffer) getFloat(i int) float64 {
	if b.values[i] == format.ShortMin {
		return float64(format.NullFloat32)
	}
	return float64(b.values[i])
}
func (b *shortBuffer) setFloat(i int, v float64) {
	if v != v {
		b.values[i] = format.ShortMin
		return
	}
	b.values[i] = int16(v)
}

// floatBuffer backs FLOAT elements.
type floatBuffer struct {
	values []float32
}

func (b *floatBuffer) getInt(i int) int32    { return int32(b.values[i]) }
func (b *floatBuffer) setInt(i int, v int32) { b.values[i] = float32(v) }
func (b *floatBuffer) getFloat(i int) float64 { return float64(b.values[i]) }
func (b *floatBuffer) setFloat(i int, v float64) { b.values[i] = float32(v) }
