package m32

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	values := []int32{
		0, 1, -1, 126, -126, 127, -127, 128, -128,
		254, -254, 255, -255, 16638, -16638, 16639, -16639,
		2113790, -2113790, 2113791, -2113791,
		270549246, -270549246, 270549247, -270549247,
		math.MaxInt32, math.MinInt32 + 1, math.MinInt32,
	}

	var buf []byte
	for _, v := range values {
		buf = Encode(buf, v)
	}

	dec := NewDecoder(buf)
	for _, want := range values {
		got, ok := dec.Decode()
		require.True(t, ok)
		require.Equal(t, want, got)
	}
	require.Equal(t, 0, dec.Len())
}

func TestEncode_SizeTable(t *testing.T) {
	cases := []struct {
		v        int32
		nBytes   int
		negative bool
	}{
		{0, 1, false},
		{126, 1, false},
		{-126, 1, false},
		{127, 2, false},
		{-127, 2, true},
		{254, 2, false},
		{255, 3, false},
		{16638, 3, false},
		{16639, 4, false},
		{2113790, 4, false},
		{2113791, 5, false},
		{270549246, 5, false},
		{270549247, 6, false},
		{math.MaxInt32, 6, false},
		{math.MinInt32, 1, true},
	}

	for _, c := range cases {
		got := Encode(nil, c.v)
		require.Len(t, got, c.nBytes, "value %d", c.v)
		require.Equal(t, c.nBytes, EncodedLen(c.v), "value %d", c.v)
	}
}

func TestDecode_TruncatedInput(t *testing.T) {
	buf := Encode(nil, 1_000_000)
	dec := NewDecoder(buf[:len(buf)-1])
	_, ok := dec.Decode()
	require.False(t, ok)
}

func TestDecode_EmptyInput(t *testing.T) {
	dec := NewDecoder(nil)
	_, ok := dec.Decode()
	require.False(t, ok)
}

func TestDecoder_MarkRewind(t *testing.T) {
	buf := Encode(nil, 42)
	buf = Encode(buf, -500)

	dec := NewDecoder(buf)
	dec.Mark()

	first, ok := dec.Decode()
	require.True(t, ok)
	require.Equal(t, int32(42), first)

	dec.Rewind()
	again, ok := dec.Decode()
	require.True(t, ok)
	require.Equal(t, int32(42), again)
}

func TestEncodeAllDecodeAll(t *testing.T) {
	values := []int32{5, -5, 1000, -1000, 0, math.MinInt32, math.MaxInt32}

	buf := EncodeAll(nil, values)

	dst := make([]int32, len(values))
	consumed, ok := DecodeAll(buf, dst)
	require.True(t, ok)
	require.Equal(t, len(buf), consumed)
	require.Equal(t, values, dst)
}

func TestEncodeAllDecodeAll_Truncated(t *testing.T) {
	values := []int32{1, 2, 3}
	buf := EncodeAll(nil, values)

	dst := make([]int32, len(values)+1)
	_, ok := DecodeAll(buf, dst)
	require.False(t, ok)
}
