package bitio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriterReader_RoundTrip(t *testing.T) {
	w := NewWriter()
	defer w.Close()

	bits := []int{1, 0, 1, 1, 0, 0, 1, 0, 1, 1}
	for _, b := range bits {
		w.WriteBit(b)
	}

	data := append([]byte(nil), w.Bytes()...)

	r := NewReader(data)
	for _, want := range bits {
		got, ok := r.GetBit()
		require.True(t, ok)
		require.Equal(t, want, got)
	}
}

func TestWriterReader_Bits(t *testing.T) {
	w := NewWriter()
	defer w.Close()

	w.WriteBits(0b101, 3)
	w.WriteBits(0xAB, 8)
	w.WriteBit(1)

	data := append([]byte(nil), w.Bytes()...)
	r := NewReader(data)

	v, ok := r.GetBits(3)
	require.True(t, ok)
	require.Equal(t, uint32(0b101), v)

	v, ok = r.GetBits(8)
	require.True(t, ok)
	require.Equal(t, uint32(0xAB), v)

	bit, ok := r.GetBit()
	require.True(t, ok)
	require.Equal(t, 1, bit)
}

func TestReader_ExhaustedStream(t *testing.T) {
	r := NewReader([]byte{0xFF})
	for i := 0; i < 8; i++ {
		_, ok := r.GetBit()
		require.True(t, ok)
	}

	_, ok := r.GetBit()
	require.False(t, ok)
}

func TestWriter_BitLen(t *testing.T) {
	w := NewWriter()
	defer w.Close()

	require.Equal(t, 0, w.BitLen())
	w.WriteBits(1, 5)
	require.Equal(t, 5, w.BitLen())
}
