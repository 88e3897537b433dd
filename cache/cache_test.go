package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridfour/gvrs/codec"
	"github.com/gridfour/gvrs/element"
)

type memBackend struct {
	mu      sync.Mutex
	payload map[int][]byte
}

func newMemBackend() *memBackend {
	return &memBackend{payload: make(map[int][]byte)}
}

func (b *memBackend) ReadTile(i int) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, ok := b.payload[i]
	return data, ok, nil
}

func (b *memBackend) WriteTile(i int, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cp := make([]byte, len(data))
	copy(cp, data)
	b.payload[i] = cp

	return nil
}

func testElements() []element.Spec {
	return []element.Spec{
		element.NewIntegerSpec("elevation"),
		element.NewFloatSpec("slope"),
	}
}

func TestCache_AllocateWriteEvict_RoundTrip(t *testing.T) {
	be := newMemBackend()
	cm := codec.NewCodecMaster()
	elements := testElements()

	c := New(be, cm, elements, 8, 8, 2, true, 1)

	tl, err := c.AllocateNewTile(0)
	require.NoError(t, err)
	require.NoError(t, tl.SetValue("elevation", 2, 3, 1500))
	require.NoError(t, tl.SetValueAsFloat64("slope", 2, 3, 12.5))

	// Force eviction by pulling in two more tiles.
	_, err = c.AllocateNewTile(1)
	require.NoError(t, err)
	_, err = c.AllocateNewTile(2)
	require.NoError(t, err)

	_, ok, err := be.ReadTile(0)
	require.NoError(t, err)
	require.True(t, ok, "evicted dirty tile should have been written back")

	reloaded, err := c.GetTile(0)
	require.NoError(t, err)

	v, err := reloaded.GetValue("elevation", 2, 3)
	require.NoError(t, err)
	require.Equal(t, int32(1500), v)

	fv, err := reloaded.GetValueAsFloat64("slope", 2, 3)
	require.NoError(t, err)
	require.InDelta(t, 12.5, fv, 1e-4)
}

func TestCache_GetTile_MissingReturnsNotFound(t *testing.T) {
	be := newMemBackend()
	cm := codec.NewCodecMaster()

	c := New(be, cm, testElements(), 8, 8, 4, true, 1)

	_, err := c.GetTile(5)
	require.Error(t, err)
}

func TestCache_GetTiles_ParallelDecode(t *testing.T) {
	be := newMemBackend()
	cm := codec.NewCodecMaster()
	elements := testElements()

	seed := New(be, cm, elements, 8, 8, 16, true, 1)
	for i := 0; i < 6; i++ {
		tl, err := seed.AllocateNewTile(i)
		require.NoError(t, err)
		require.NoError(t, tl.SetValue("elevation", 0, 0, int32(100+i)))
	}
	require.NoError(t, seed.Flush())

	fresh := New(be, cm, elements, 8, 8, 16, true, 4)
	tiles, err := fresh.GetTiles([]int{0, 1, 2, 3, 4, 5})
	require.NoError(t, err)
	require.Len(t, tiles, 6)

	for i, tl := range tiles {
		v, err := tl.GetValue("elevation", 0, 0)
		require.NoError(t, err)
		require.Equal(t, int32(100+i), v)
	}
}

func TestCache_Flush_DoesNotEvict(t *testing.T) {
	be := newMemBackend()
	cm := codec.NewCodecMaster()

	c := New(be, cm, testElements(), 8, 8, 4, true, 1)

	_, err := c.AllocateNewTile(0)
	require.NoError(t, err)

	require.NoError(t, c.Flush())
	require.Equal(t, 1, c.Len())

	_, ok, err := be.ReadTile(0)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCache_ReadOnly_DoesNotWriteBackOnEvict(t *testing.T) {
	be := newMemBackend()
	cm := codec.NewCodecMaster()

	c := New(be, cm, testElements(), 8, 8, 1, false, 1)

	_, err := c.AllocateNewTile(0)
	require.NoError(t, err)
	_, err = c.AllocateNewTile(1)
	require.NoError(t, err)

	_, ok, err := be.ReadTile(0)
	require.NoError(t, err)
	require.False(t, ok)
}
