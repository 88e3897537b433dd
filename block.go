package gvrs

import (
	"errors"
	"fmt"
	"math"

	"github.com/gridfour/gvrs/errs"
	"github.com/gridfour/gvrs/format"
)

func (f *File) checkCellBounds(row, col int) error {
	if row < 0 || row >= f.spec.R {
		return fmt.Errorf("%w: row %d", errs.ErrRowOutOfRange, row)
	}
	if col < 0 || col >= f.spec.C {
		return fmt.Errorf("%w: column %d", errs.ErrColumnOutOfRange, col)
	}

	return nil
}

// ReadValue returns element's raw int32 value at (row,col) (spec.md §4.13
// readValue), consulting the cache.
func (f *File) ReadValue(row, col int, element string) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == stateClosed {
		return 0, errs.ErrFileClosed
	}
	if err := f.checkCellBounds(row, col); err != nil {
		return 0, err
	}

	tileIndex, rowInTile, colInTile := f.spec.TileIndexOf(row, col)

	t, err := f.cache.GetTile(tileIndex)
	if err != nil {
		if errors.Is(err, errs.ErrTileNotFound) {
			return format.IntMin, nil
		}

		return 0, err
	}

	return t.GetValue(element, rowInTile, colInTile)
}

// ReadValueAsFloat64 is ReadValue's floating-point presentation, applying
// each element's scale/offset transform (spec.md §3, §4.13).
func (f *File) ReadValueAsFloat64(row, col int, element string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == stateClosed {
		return 0, errs.ErrFileClosed
	}
	if err := f.checkCellBounds(row, col); err != nil {
		return 0, err
	}

	tileIndex, rowInTile, colInTile := f.spec.TileIndexOf(row, col)

	t, err := f.cache.GetTile(tileIndex)
	if err != nil {
		if errors.Is(err, errs.ErrTileNotFound) {
			return math.NaN(), nil
		}

		return 0, err
	}

	return t.GetValueAsFloat64(element, rowInTile, colInTile)
}

// WriteValue stores v as element's raw int32 value at (row,col), allocating
// the backing tile on first touch (spec.md §4.13 writeValue, §4.15
// writeCell marks the tile dirty).
func (f *File) WriteValue(row, col int, element string, v int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != stateOpenWrite {
		return errs.ErrNotOpenForWrite
	}
	if err := f.checkCellBounds(row, col); err != nil {
		return err
	}

	tileIndex, rowInTile, colInTile := f.spec.TileIndexOf(row, col)

	t, err := f.getOrAllocateTileLocked(tileIndex)
	if err != nil {
		return err
	}

	return t.SetValue(element, rowInTile, colInTile, v)
}

// WriteValueAsFloat64 is WriteValue's floating-point counterpart.
func (f *File) WriteValueAsFloat64(row, col int, element string, v float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != stateOpenWrite {
		return errs.ErrNotOpenForWrite
	}
	if err := f.checkCellBounds(row, col); err != nil {
		return err
	}

	tileIndex, rowInTile, colInTile := f.spec.TileIndexOf(row, col)

	t, err := f.getOrAllocateTileLocked(tileIndex)
	if err != nil {
		return err
	}

	return t.SetValueAsFloat64(element, rowInTile, colInTile, v)
}

func (f *File) getOrAllocateTileLocked(tileIndex int) (tileAccessor, error) {
	t, err := f.cache.GetTile(tileIndex)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, errs.ErrTileNotFound) {
		return nil, err
	}

	return f.cache.AllocateNewTile(tileIndex)
}

// ReadBlockFloat64 stitches together every tile covering the nRows x nCols
// rectangle whose top-left corner is (row0,col0), returning a row-major
// sub-grid in float presentation. A tile with no stored payload contributes
// NaN for every cell in its portion of the block (spec.md §4.14).
func (f *File) ReadBlockFloat64(row0, col0, nRows, nCols int, element string) ([][]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == stateClosed {
		return nil, errs.ErrFileClosed
	}

	out := make([][]float64, nRows)
	for i := range out {
		out[i] = make([]float64, nCols)
		for j := range out[i] {
			out[i][j] = math.NaN()
		}
	}

	return out, f.forEachCoveredTileLocked(row0, col0, nRows, nCols, func(t tileAccessor, rowLo, rowHi, colLo, colHi, tileRowStart, tileColStart int) error {
		for r := rowLo; r < rowHi; r++ {
			for c := colLo; c < colHi; c++ {
				v := math.NaN()
				if t != nil {
					var err error
					v, err = t.GetValueAsFloat64(element, r-tileRowStart, c-tileColStart)
					if err != nil {
						return err
					}
				}
				out[r-row0][c-col0] = v
			}
		}

		return nil
	})
}

// WriteBlockFloat64 is ReadBlockFloat64's write counterpart: values must be
// nRows x nCols, row-major; a tile touched for the first time is allocated
// fresh (spec.md §4.13 writeBlock/§4.15).
func (f *File) WriteBlockFloat64(row0, col0, nRows, nCols int, element string, values [][]float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != stateOpenWrite {
		return errs.ErrNotOpenForWrite
	}

	return f.forEachCoveredTileLocked(row0, col0, nRows, nCols, func(t tileAccessor, rowLo, rowHi, colLo, colHi, tileRowStart, tileColStart int) error {
		for r := rowLo; r < rowHi; r++ {
			for c := colLo; c < colHi; c++ {
				if err := t.SetValueAsFloat64(element, r-tileRowStart, c-tileColStart, values[r-row0][c-col0]); err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// tileAccessor is the subset of *tile.Tile this package's block/cell
// operations use; kept as a local interface so block.go does not need to
// import the tile package just to name the concrete type in signatures.
type tileAccessor interface {
	GetValue(element string, rowInTile, colInTile int) (int32, error)
	SetValue(element string, rowInTile, colInTile int, v int32) error
	GetValueAsFloat64(element string, rowInTile, colInTile int) (float64, error)
	SetValueAsFloat64(element string, rowInTile, colInTile int, v float64) error
}

// forEachCoveredTileLocked walks every tile intersecting the requested
// rectangle and invokes fn with that tile (nil if unwritten, read paths
// only — write paths always allocate), the intersected cell range in grid
// coordinates, and the tile's own grid origin (spec.md §4.14).
func (f *File) forEachCoveredTileLocked(row0, col0, nRows, nCols int, fn func(t tileAccessor, rowLo, rowHi, colLo, colHi, tileRowStart, tileColStart int) error) error {
	writing := f.state == stateOpenWrite

	tileRow0 := max(0, row0/f.spec.TileRows)
	tileCol0 := max(0, col0/f.spec.TileCols)
	tileRow1 := min(f.spec.TileCountRows()-1, (row0+nRows-1)/f.spec.TileRows)
	tileCol1 := min(f.spec.TileCountCols()-1, (col0+nCols-1)/f.spec.TileCols)

	type span struct {
		tileIndex int
		rowLo, rowHi, colLo, colHi int
		tileRowStart, tileColStart int
	}

	var spans []span
	var tileIndices []int
	for tr := tileRow0; tr <= tileRow1; tr++ {
		for tc := tileCol0; tc <= tileCol1; tc++ {
			tileIndex := tr*f.spec.TileCountCols() + tc
			tileRowStart := tr * f.spec.TileRows
			tileColStart := tc * f.spec.TileCols

			rowLo := max(row0, tileRowStart)
			rowHi := min(row0+nRows, tileRowStart+f.spec.TileRows)
			colLo := max(col0, tileColStart)
			colHi := min(col0+nCols, tileColStart+f.spec.TileCols)
			if rowLo >= rowHi || colLo >= colHi {
				continue
			}

			spans = append(spans, span{tileIndex, rowLo, rowHi, colLo, colHi, tileRowStart, tileColStart})
			tileIndices = append(tileIndices, tileIndex)
		}
	}

	// On the read path, prefetch every covered tile in one batch so multi-tile
	// reads can decode in parallel (cache.Cache.GetTiles), rather than forcing
	// one decode at a time through fn's loop.
	var prefetched []tileAccessor
	if !writing && len(tileIndices) > 0 {
		tiles, err := f.cache.GetTiles(tileIndices)
		if err != nil {
			return err
		}

		prefetched = make([]tileAccessor, len(tiles))
		for i, t := range tiles {
			if t != nil {
				prefetched[i] = t
			}
		}
	}

	for i, sp := range spans {
		var t tileAccessor
		if writing {
			allocated, err := f.getOrAllocateTileLocked(sp.tileIndex)
			if err != nil {
				return err
			}
			t = allocated
		} else {
			t = prefetched[i]
		}

		if err := fn(t, sp.rowLo, sp.rowHi, sp.colLo, sp.colHi, sp.tileRowStart, sp.tileColStart); err != nil {
			return err
		}
	}

	return nil
}
