package cache

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/gridfour/gvrs/codec"
	"github.com/gridfour/gvrs/element"
	"github.com/gridfour/gvrs/errs"
	"github.com/gridfour/gvrs/tile"
)

// backend is the persistence layer a Cache sits in front of; store.Store
// satisfies it. Kept as a narrow interface (rather than importing store
// directly) so the cache can be tested without a real tile store.
type backend interface {
	ReadTile(i int) (data []byte, ok bool, err error)
	WriteTile(i int, data []byte) error
}

// Size presets for a cache's LRU bound (spec.md §4.12).
const (
	Small  = 4
	Medium = 16
)

// LargeBound is spec.md §4.12's Large preset, max(tileCountRows,
// tileCountCols)+4.
func LargeBound(tileCountRows, tileCountCols int) int {
	n := tileCountRows
	if tileCountCols > n {
		n = tileCountCols
	}

	return n + 4
}

type entryState struct {
	index int
	tile  *tile.Tile
}

// Cache is the bounded LRU tile cache sitting between the raster file façade
// and the persistent store (spec.md §4.12). Single-threaded by default;
// GetTiles uses a bounded worker pool to decode multiple tile payloads
// concurrently, handing each off to the cache (under its lock) only at
// insertion, matching the concurrency model's "per-tile buffers are built by
// one worker and handed off to the cache at insertion time" rule.
type Cache struct {
	mu sync.Mutex

	backend  backend
	codecs   *codec.CodecMaster
	elements []element.Spec
	tileRows int
	tileCols int
	writable bool

	capacity int
	order    *list.List
	byIndex  map[int]*list.Element

	workers int
}

// New builds a Cache bounded at capacity resident tiles. workers <= 1 means
// GetTiles decodes serially; workers > 1 enables the parallel-decode worker
// pool.
func New(be backend, codecs *codec.CodecMaster, elements []element.Spec, tileRows, tileCols, capacity int, writable bool, workers int) *Cache {
	if capacity < 1 {
		capacity = 1
	}

	return &Cache{
		backend:  be,
		codecs:   codecs,
		elements: elements,
		tileRows: tileRows,
		tileCols: tileCols,
		writable: writable,
		capacity: capacity,
		order:    list.New(),
		byIndex:  make(map[int]*list.Element),
		workers:  workers,
	}
}

// GetTile returns the resident tile at index i, decoding it from the backend
// on a cache miss and evicting the least-recently-used tile (writing it back
// first if dirty and the cache is writable) if the cache is at capacity.
// Returns errs.ErrTileNotFound if the backend has no payload for i.
func (c *Cache) GetTile(i int) (*tile.Tile, error) {
	c.mu.Lock()
	if el, ok := c.byIndex[i]; ok {
		c.order.MoveToFront(el)
		t := el.Value.(*entryState).tile
		c.mu.Unlock()

		return t, nil
	}
	c.mu.Unlock()

	data, ok, err := c.backend.ReadTile(i)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: tile %d", errs.ErrTileNotFound, i)
	}

	t, err := DecodeTile(data, i, c.tileRows, c.tileCols, c.elements, c.codecs)
	if err != nil {
		return nil, err
	}

	return c.insert(i, t)
}

// GetTiles is GetTile's batch form: missing tiles are decoded concurrently
// across a bounded worker pool (or serially if Cache was built with
// workers <= 1), each inserted into the cache as its decode completes.
// Results are returned in the same order as indices. Unlike GetTile, a tile
// with no stored payload is not an error: its slot in the result is left
// nil, since GetTiles is meant for read-path prefetch where an unwritten
// tile is a legitimate outcome.
func (c *Cache) GetTiles(indices []int) ([]*tile.Tile, error) {
	out := make([]*tile.Tile, len(indices))

	missing := make([]int, 0, len(indices))
	slot := make([]int, 0, len(indices))
	for k, i := range indices {
		c.mu.Lock()
		if el, ok := c.byIndex[i]; ok {
			c.order.MoveToFront(el)
			out[k] = el.Value.(*entryState).tile
			c.mu.Unlock()
			continue
		}
		c.mu.Unlock()

		missing = append(missing, i)
		slot = append(slot, k)
	}

	if len(missing) == 0 {
		return out, nil
	}

	workers := c.workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(missing) {
		workers = len(missing)
	}

	jobs := make(chan int, len(missing))
	for k := range missing {
		jobs <- k
	}
	close(jobs)

	results := make([]*tile.Tile, len(missing))
	decodeErrs := make([]error, len(missing))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range jobs {
				i := missing[k]
				data, ok, err := c.backend.ReadTile(i)
				if err != nil {
					decodeErrs[k] = err
					continue
				}
				if !ok {
					continue
				}
				t, err := DecodeTile(data, i, c.tileRows, c.tileCols, c.elements, c.codecs)
				if err != nil {
					decodeErrs[k] = err
					continue
				}
				results[k] = t
			}
		}()
	}
	wg.Wait()

	for k, i := range missing {
		if decodeErrs[k] != nil {
			return nil, decodeErrs[k]
		}
		if results[k] == nil {
			continue
		}

		inserted, err := c.insert(i, results[k])
		if err != nil {
			return nil, err
		}
		out[slot[k]] = inserted
	}

	return out, nil
}

// AllocateNewTile creates an empty, null-initialized tile at index i, marks
// it dirty, and inserts it into the cache (spec.md §4.12 allocateNewTile).
func (c *Cache) AllocateNewTile(i int) (*tile.Tile, error) {
	t := tile.New(i, c.tileRows, c.tileCols, c.elements)

	c.mu.Lock()
	if el, ok := c.byIndex[i]; ok {
		c.order.MoveToFront(el)
		c.mu.Unlock()

		return el.Value.(*entryState).tile, nil
	}
	c.mu.Unlock()

	t.MarkDirty()

	return c.insert(i, t)
}

func (c *Cache) insert(i int, t *tile.Tile) (*tile.Tile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.byIndex[i]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*entryState).tile, nil
	}

	if c.order.Len() >= c.capacity {
		if err := c.evictOneLocked(); err != nil {
			return nil, err
		}
	}

	el := c.order.PushFront(&entryState{index: i, tile: t})
	c.byIndex[i] = el

	return t, nil
}

func (c *Cache) evictOneLocked() error {
	back := c.order.Back()
	if back == nil {
		return nil
	}

	st := back.Value.(*entryState)
	if st.tile.Dirty() && c.writable {
		packed, err := EncodeTile(st.tile, c.codecs)
		if err != nil {
			return err
		}
		if err := c.backend.WriteTile(st.index, packed); err != nil {
			return err
		}
		st.tile.ClearDirty()
	}

	c.order.Remove(back)
	delete(c.byIndex, st.index)

	return nil
}

// Flush writes back every resident dirty tile without evicting it (spec.md
// §4.13 flush).
func (c *Cache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for el := c.order.Front(); el != nil; el = el.Next() {
		st := el.Value.(*entryState)
		if !st.tile.Dirty() || !c.writable {
			continue
		}

		packed, err := EncodeTile(st.tile, c.codecs)
		if err != nil {
			return err
		}
		if err := c.backend.WriteTile(st.index, packed); err != nil {
			return err
		}
		st.tile.ClearDirty()
	}

	return nil
}

// Len reports the number of resident tiles.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}
