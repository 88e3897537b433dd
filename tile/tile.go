package tile

import (
	"fmt"

	"github.com/gridfour/gvrs/element"
	"github.com/gridfour/gvrs/errs"
)

// Tile is the fixed-shape, fixed-type data container for one tile
// (spec.md §4.10). It owns one buffer per element and is always fully
// populated at TileRows x TileCols, with cells beyond the grid's extent
// (the last row/column of tiles) left at each element's null sentinel.
type Tile struct {
	Index     int
	TileRows  int
	TileCols  int
	Elements  []element.Spec
	buffers   []elementBuffer
	dirty     bool
}

// New allocates a tile of the given index and shape, every cell
// initialized to its element's null sentinel.
func New(index, tileRows, tileCols int, elements []element.Spec) *Tile {
	n := tileRows * tileCols

	buffers := make([]elementBuffer, len(elements))
	for i, e := range elements {
		buffers[i] = newElementBuffer(e, n)
	}

	return &Tile{
		Index:    index,
		TileRows: tileRows,
		TileCols: tileCols,
		Elements: elements,
		buffers:  buffers,
	}
}

func (t *Tile) cellIndex(row, col int) int { return row*t.TileCols + col }

func (t *Tile) elementIndex(name string) (int, error) {
	for i, e := range t.Elements {
		if e.Name == name {
			return i, nil
		}
	}

	return 0, fmt.Errorf("%w: tile: unknown element %q", errs.ErrInvalidElementSpec, name)
}

// GetValue returns the stored int32 value of the named element at
// (rowInTile, colInTile). Bounds are not checked; the façade is responsible
// for computing valid in-tile coordinates (spec.md §4.10).
func (t *Tile) GetValue(element string, rowInTile, colInTile int) (int32, error) {
	i, err := t.elementIndex(element)
	if err != nil {
		return 0, err
	}

	return t.buffers[i].getInt(t.cellIndex(rowInTile, colInTile)), nil
}

// SetValue stores v as the named element's int32 value at
// (rowInTile, colInTile) and marks the tile dirty.
func (t *Tile) SetValue(element string, rowInTile, colInTile int, v int32) error {
	i, err := t.elementIndex(element)
	if err != nil {
		return err
	}

	t.buffers[i].setInt(t.cellIndex(rowInTile, colInTile), v)
	t.dirty = true

	return nil
}

// GetValueAsFloat64 is GetValue's floating-point presentation, applying an
// INTEGER_CODED_FLOAT element's scale/offset transform or reading a FLOAT
// element directly (spec.md §3).
func (t *Tile) GetValueAsFloat64(element string, rowInTile, colInTile int) (float64, error) {
	i, err := t.elementIndex(element)
	if err != nil {
		return 0, err
	}

	return t.buffers[i].getFloat(t.cellIndex(rowInTile, colInTile)), nil
}

// SetValueAsFloat64 is SetValue's floating-point counterpart.
func (t *Tile) SetValueAsFloat64(element string, rowInTile, colInTile int, v float64) error {
	i, err := t.elementIndex(element)
	if err != nil {
		return err
	}

	t.buffers[i].setFloat(t.cellIndex(rowInTile, colInTile), v)
	t.dirty = true

	return nil
}

// GetValues copies every cell of the named element, in row-major order,
// into out (len(out) must equal TileRows*TileCols).
func (t *Tile) GetValues(element string, out []int32) error {
	i, err := t.elementIndex(element)
	if err != nil {
		return err
	}

	buf := t.buffers[i]
	for k := range out {
		out[k] = buf.getInt(k)
	}

	return nil
}

// SetValues overwrites every cell of the named element from in (row-major,
// len(in) must equal TileRows*TileCols) and marks the tile dirty.
func (t *Tile) SetValues(element string, in []int32) error {
	i, err := t.elementIndex(element)
	if err != nil {
		return err
	}

	buf := t.buffers[i]
	for k, v := range in {
		buf.setInt(k, v)
	}
	t.dirty = true

	return nil
}

// GetFloatValues copies a FLOAT element's raw float32 storage, row-major.
// Unlike GetValues, no lossy int32 narrowing is applied; it is an error to
// call this on a non-FLOAT element.
func (t *Tile) GetFloatValues(element string) ([]float32, error) {
	i, err := t.elementIndex(element)
	if err != nil {
		return nil, err
	}

	fb, ok := t.buffers[i].(*floatBuffer)
	if !ok {
		return nil, fmt.Errorf("%w: tile: element %q is not FLOAT", errs.ErrInvalidElementSpec, element)
	}

	out := make([]float32, len(fb.values))
	copy(out, fb.values)

	return out, nil
}

// GetFloatValuesInto copies a FLOAT element's raw float32 storage, row-major,
// into out (len(out) must equal TileRows*TileCols), avoiding the allocation
// GetFloatValues makes internally.
func (t *Tile) GetFloatValuesInto(element string, out []float32) error {
	i, err := t.elementIndex(element)
	if err != nil {
		return err
	}

	fb, ok := t.buffers[i].(*floatBuffer)
	if !ok {
		return fmt.Errorf("%w: tile: element %q is not FLOAT", errs.ErrInvalidElementSpec, element)
	}

	copy(out, fb.values)

	return nil
}

// SetFloatValues overwrites a FLOAT element's raw float32 storage, row-major,
// and marks the tile dirty.
func (t *Tile) SetFloatValues(element string, in []float32) error {
	i, err := t.elementIndex(element)
	if err != nil {
		return err
	}

	fb, ok := t.buffers[i].(*floatBuffer)
	if !ok {
		return fmt.Errorf("%w: tile: element %q is not FLOAT", errs.ErrInvalidElementSpec, element)
	}

	copy(fb.values, in)
	t.dirty = true

	return nil
}

// MarkDirty flags the tile as having unflushed modifications, for a
// freshly allocated tile that has never been persisted (spec.md §4.12
// allocateNewTile).
func (t *Tile) MarkDirty() { t.dirty = true }

// Dirty reports whether the tile has unflushed modifications.
func (t *Tile) Dirty() bool { return t.dirty }

// ClearDirty resets the dirty flag, called after a successful write-back.
func (t *Tile) ClearDirty() { t.dirty = false }
