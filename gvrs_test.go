package gvrs_test

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridfour/gvrs"
	"github.com/gridfour/gvrs/element"
	"github.com/gridfour/gvrs/spec"
)

func newTestSpec(t *testing.T) spec.FileSpec {
	t.Helper()

	s, err := gvrs.NewGridSpec(40, 30, 8, 8, element.NewFloatSpec("z"))
	require.NoError(t, err)

	return s
}

func TestCreateWriteCloseReopenReadValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.gvrs")
	s := newTestSpec(t)

	f, err := gvrs.Create(path, s, 0, 0)
	require.NoError(t, err)

	require.NoError(t, f.WriteValueAsFloat64(3, 4, "z", 812.5))
	require.NoError(t, f.WriteValueAsFloat64(39, 29, "z", -1.25))
	require.NoError(t, f.Close())

	reopened, err := gvrs.Open(path, false, 0, 0)
	require.NoError(t, err)
	defer reopened.Close()

	v, err := reopened.ReadValueAsFloat64(3, 4, "z")
	require.NoError(t, err)
	assert.InDelta(t, 812.5, v, 1e-6)

	v, err = reopened.ReadValueAsFloat64(39, 29, "z")
	require.NoError(t, err)
	assert.InDelta(t, -1.25, v, 1e-6)
}

func TestReadValueMissingTileReturnsNullSentinel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.gvrs")
	s := newTestSpec(t)

	f, err := gvrs.Create(path, s, 0, 0)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.ReadValueAsFloat64(0, 0, "z")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))
}

func TestWriteReadBlockRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.gvrs")
	s := newTestSpec(t)

	f, err := gvrs.Create(path, s, 0, 0)
	require.NoError(t, err)

	block := make([][]float64, 10)
	for r := range block {
		block[r] = make([]float64, 12)
		for c := range block[r] {
			block[r][c] = float64(r*100 + c)
		}
	}
	require.NoError(t, f.WriteBlockFloat64(5, 2, 10, 12, "z", block))
	require.NoError(t, f.Close())

	reopened, err := gvrs.Open(path, false, 0, 0)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.ReadBlockFloat64(5, 2, 10, 12, "z")
	require.NoError(t, err)
	for r := range block {
		for c := range block[r] {
			assert.InDelta(t, block[r][c], got[r][c], 1e-6, "row %d col %d", r, c)
		}
	}
}

func TestConcurrentOpenForWritingIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.gvrs")
	s := newTestSpec(t)

	f, err := gvrs.Create(path, s, 0, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	// f is still open for writing; its on-disk TimeOpenedForWriting is
	// non-zero until Close stamps it, so a second open must fail even
	// for a read-only request.
	_, err = gvrs.Open(path, false, 0, 0)
	require.Error(t, err)
}

func TestVariableLengthRecordRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.gvrs")
	s := newTestSpec(t)

	f, err := gvrs.Create(path, s, 0, 0)
	require.NoError(t, err)

	require.NoError(t, f.StoreVariableLengthRecord("Notes", 1, "provenance", true, []byte("made by a test")))
	require.NoError(t, f.Close())

	reopened, err := gvrs.Open(path, true, 0, 0)
	require.NoError(t, err)
	defer reopened.Close()

	var found bool
	for _, r := range reopened.VariableLengthRecords() {
		if r.UserID == "Notes" && r.RecordID == 1 {
			found = true
			assert.Equal(t, "made by a test", string(r.Payload))
		}
	}
	assert.True(t, found, "expected to find the stored VLR after reopening")
}

func TestWriteValueOnReadOnlyFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.gvrs")
	s := newTestSpec(t)

	f, err := gvrs.Create(path, s, 0, 0)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	reopened, err := gvrs.Open(path, false, 0, 0)
	require.NoError(t, err)
	defer reopened.Close()

	err = reopened.WriteValueAsFloat64(0, 0, "z", 1.0)
	assert.Error(t, err)
}

func TestReadBlockParallelDecodeMatchesSerial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.gvrs")
	s := newTestSpec(t)

	f, err := gvrs.Create(path, s, 0, 0)
	require.NoError(t, err)

	block := make([][]float64, 40)
	for r := range block {
		block[r] = make([]float64, 30)
		for c := range block[r] {
			block[r][c] = float64(r*100 + c)
		}
	}
	require.NoError(t, f.WriteBlockFloat64(0, 0, 40, 30, "z", block))
	require.NoError(t, f.Close())

	reopened, err := gvrs.Open(path, false, 0, 4)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.ReadBlockFloat64(0, 0, 40, 30, "z")
	require.NoError(t, err)
	for r := range block {
		for c := range block[r] {
			assert.InDelta(t, block[r][c], got[r][c], 1e-6, "row %d col %d", r, c)
		}
	}
}
