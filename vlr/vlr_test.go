package vlr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecord_BytesParse_RoundTrip(t *testing.T) {
	r, err := New("GvrsUser", 42, "a test record", false, []byte{1, 2, 3, 4, 5})
	require.NoError(t, err)

	buf := r.Bytes()
	parsed, n, err := Parse(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, r, parsed)
}

func TestRecord_Validate(t *testing.T) {
	_, err := New("", 1, "", false, nil)
	require.Error(t, err)

	_, err = New(strings.Repeat("x", 17), 1, "", false, nil)
	require.Error(t, err)

	_, err = New("ok", -1, "", false, nil)
	require.Error(t, err)
}

func TestRegistry_EncodeDecode_RoundTrip(t *testing.T) {
	names := []string{"GridfourDeflate", "GridfourHuffman", "LSOP8", "LSOP12", "Float", "LZ4Raw", "ZstdRaw"}

	record := EncodeRegistry(names)
	require.Equal(t, RegistryUserID, record.UserID)
	require.True(t, record.IsText)

	decoded := DecodeRegistry(record)
	require.Equal(t, names, decoded)
}

func TestRegistry_EmptyPayload(t *testing.T) {
	record := EncodeRegistry(nil)
	require.Nil(t, DecodeRegistry(record))
}

func TestParse_MultipleRecordsBackToBack(t *testing.T) {
	r1, _ := New("first", 1, "", false, []byte("hello"))
	r2, _ := New("second", 2, "", true, []byte("world"))

	buf := append(r1.Bytes(), r2.Bytes()...)

	parsed1, n1, err := Parse(buf)
	require.NoError(t, err)
	require.Equal(t, r1, parsed1)

	parsed2, n2, err := Parse(buf[n1:])
	require.NoError(t, err)
	require.Equal(t, r2, parsed2)
	require.Equal(t, len(buf), n1+n2)
}
