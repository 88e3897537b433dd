package cache

import (
	"fmt"

	"github.com/gridfour/gvrs/codec"
	"github.com/gridfour/gvrs/element"
	"github.com/gridfour/gvrs/endian"
	"github.com/gridfour/gvrs/errs"
	"github.com/gridfour/gvrs/format"
	"github.com/gridfour/gvrs/internal/pool"
	"github.com/gridfour/gvrs/tile"
)

// EncodeTile packs every element of t through cm, concatenating each
// element's codec-chosen encoding behind a 4-byte length prefix, in the
// tile's element order. This is the tile payload format stored by
// store.Store.WriteTile; spec.md §4.4/§4.9 specify the per-element codec
// packing but leave how a multi-element tile's packings are concatenated
// into one payload unstated, so this fixes a concrete convention.
func EncodeTile(t *tile.Tile, cm *codec.CodecMaster) ([]byte, error) {
	engine := endian.GetLittleEndianEngine()

	out := make([]byte, 0, 256)
	for _, e := range t.Elements {
		var packed []byte
		var err error

		if e.Type == format.ElementFloat {
			values, putValues := pool.GetFloat32Slice(t.TileRows * t.TileCols)
			if ferr := t.GetFloatValuesInto(e.Name, values); ferr != nil {
				putValues()
				return nil, ferr
			}
			packed, err = cm.EncodeFloats(t.TileRows, t.TileCols, values)
			putValues()
		} else {
			values, putValues := pool.GetInt32Slice(t.TileRows * t.TileCols)
			if gerr := t.GetValues(e.Name, values); gerr != nil {
				putValues()
				return nil, gerr
			}
			packed, err = cm.EncodeInts(t.TileRows, t.TileCols, values)
			putValues()
		}
		if err != nil {
			return nil, fmt.Errorf("cache: encode element %q: %w", e.Name, err)
		}

		out = engine.AppendUint32(out, uint32(len(packed)))
		out = append(out, packed...)
	}

	return out, nil
}

// DecodeTile reverses EncodeTile, reconstructing a tile.Tile of the given
// index/shape/elements from a payload read from the store.
func DecodeTile(data []byte, index, tileRows, tileCols int, elements []element.Spec, cm *codec.CodecMaster) (*tile.Tile, error) {
	engine := endian.GetLittleEndianEngine()

	t := tile.New(index, tileRows, tileCols, elements)

	offset := 0
	for _, e := range elements {
		if len(data) < offset+4 {
			return nil, fmt.Errorf("%w: cache: truncated element length", errs.ErrTruncatedPayload)
		}
		length := int(engine.Uint32(data[offset : offset+4]))
		offset += 4

		if len(data) < offset+length {
			return nil, fmt.Errorf("%w: cache: truncated element payload", errs.ErrTruncatedPayload)
		}
		packed := data[offset : offset+length]
		offset += length

		if e.Type == format.ElementFloat {
			values, err := cm.DecodeFloats(packed, tileRows, tileCols)
			if err != nil {
				return nil, fmt.Errorf("cache: decode element %q: %w", e.Name, err)
			}
			if err := t.SetFloatValues(e.Name, values); err != nil {
				return nil, err
			}
		} else {
			values, err := cm.DecodeInts(packed, tileRows, tileCols)
			if err != nil {
				return nil, fmt.Errorf("cache: decode element %q: %w", e.Name, err)
			}
			if err := t.SetValues(e.Name, values); err != nil {
				return nil, err
			}
		}
	}

	t.ClearDirty()

	return t, nil
}
