package spec

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gridfour/gvrs/element"
	"github.com/gridfour/gvrs/endian"
	"github.com/gridfour/gvrs/errs"
	"github.com/gridfour/gvrs/format"
)

// FileSpec is the immutable file specification (spec.md §3): grid/tile
// geometry, element layout, registered codec names, an optional coordinate
// mapping, and a UUID identifying the file.
type FileSpec struct {
	// R, C are the full grid's row/column counts.
	R, C int
	// TileRows, TileCols are one tile's row/column counts.
	TileRows, TileCols int

	Elements []element.Spec

	// CodecNames is the ordered list of registered codec names, mirrored
	// into the GvrsCompressionCodecs VLR (spec.md §4.9).
	CodecNames []string

	// Mapper is optional; nil means no coordinate system is associated with
	// the grid.
	Mapper CoordinateMapper

	UUID uuid.UUID

	VersionMajor uint8
	VersionMinor uint8
}

// New returns a FileSpec with a fresh UUID and the current format version,
// for a grid of R rows / C cols partitioned into tiles of TileRows x
// TileCols.
func New(r, c, tileRows, tileCols int, elements []element.Spec) (FileSpec, error) {
	s := FileSpec{
		R: r, C: c,
		TileRows: tileRows, TileCols: tileCols,
		Elements:     elements,
		UUID:         uuid.New(),
		VersionMajor: format.FormatVersionMajor,
		VersionMinor: format.FormatVersionMinor,
	}

	return s, s.Validate()
}

// Validate checks the grid is well-formed (spec.md §3 invariants).
func (s FileSpec) Validate() error {
	if s.R <= 0 || s.C <= 0 {
		return fmt.Errorf("%w: spec: grid dimensions must be positive", errs.ErrInvalidGridShape)
	}
	if s.TileRows <= 0 || s.TileCols <= 0 {
		return fmt.Errorf("%w: spec: tile dimensions must be positive", errs.ErrInvalidTileShape)
	}
	if len(s.Elements) == 0 {
		return fmt.Errorf("%w: spec: at least one element is required", errs.ErrInvalidElementSpec)
	}
	for _, e := range s.Elements {
		if err := e.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// TileCountRows is TR = ceil(R/tr) (spec.md §3).
func (s FileSpec) TileCountRows() int { return ceilDiv(s.R, s.TileRows) }

// TileCountCols is TC = ceil(C/tc) (spec.md §3).
func (s FileSpec) TileCountCols() int { return ceilDiv(s.C, s.TileCols) }

// TileCount is TR*TC, the size of the tile directory (spec.md §4.11).
func (s FileSpec) TileCount() int { return s.TileCountRows() * s.TileCountCols() }

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// TileIndexOf returns the tile index for a grid (row,col), and the cell's
// position inside that tile.
func (s FileSpec) TileIndexOf(row, col int) (tileIndex, rowInTile, colInTile int) {
	tileRow := row / s.TileRows
	tileCol := col / s.TileCols

	return tileRow*s.TileCountCols() + tileCol, row % s.TileRows, col % s.TileCols
}

// Bytes serializes the specification record (spec.md §3, §4.11: "followed by
// the serialized spec"). Layout: R, C, tr, tc (int32 each), element count
// (uint16), elements, codec-name count (uint16), length-prefixed codec
// names, 16-byte UUID, version major/minor.
func (s FileSpec) Bytes() []byte {
	engine := endian.GetLittleEndianEngine()

	buf := make([]byte, 0, 256)
	buf = engine.AppendUint32(buf, uint32(s.R))
	buf = engine.AppendUint32(buf, uint32(s.C))
	buf = engine.AppendUint32(buf, uint32(s.TileRows))
	buf = engine.AppendUint32(buf, uint32(s.TileCols))

	buf = engine.AppendUint16(buf, uint16(len(s.Elements)))
	for _, e := range s.Elements {
		buf = append(buf, e.Bytes()...)
	}

	buf = engine.AppendUint16(buf, uint16(len(s.CodecNames)))
	for _, name := range s.CodecNames {
		buf = append(buf, byte(len(name)))
		buf = append(buf, name...)
	}

	idBytes, _ := s.UUID.MarshalBinary()
	buf = append(buf, idBytes...)
	buf = append(buf, s.VersionMajor, s.VersionMinor)

	return buf
}

// Parse reads a FileSpec from data (as produced by Bytes). The coordinate
// mapper, being an external collaborator (spec.md §1, §6), is never
// serialized and is always nil after Parse; callers that need one must
// attach it themselves.
func Parse(data []byte) (FileSpec, error) {
	if len(data) < 4*4+2 {
		return FileSpec{}, fmt.Errorf("%w: spec: truncated header", errs.ErrTruncatedPayload)
	}

	engine := endian.GetLittleEndianEngine()

	s := FileSpec{}
	s.R = int(engine.Uint32(data[0:4]))
	s.C = int(engine.Uint32(data[4:8]))
	s.TileRows = int(engine.Uint32(data[8:12]))
	s.TileCols = int(engine.Uint32(data[12:16]))

	offset := 16
	nElements := int(engine.Uint16(data[offset : offset+2]))
	offset += 2

	s.Elements = make([]element.Spec, nElements)
	for i := 0; i < nElements; i++ {
		e, n, err := element.Parse(data[offset:])
		if err != nil {
			return FileSpec{}, err
		}
		s.Elements[i] = e
		offset += n
	}

	if len(data) < offset+2 {
		return FileSpec{}, fmt.Errorf("%w: spec: truncated codec list", errs.ErrTruncatedPayload)
	}
	nCodecs := int(engine.Uint16(data[offset : offset+2]))
	offset += 2

	s.CodecNames = make([]string, nCodecs)
	for i := 0; i < nCodecs; i++ {
		if len(data) < offset+1 {
			return FileSpec{}, fmt.Errorf("%w: spec: truncated codec name", errs.ErrTruncatedPayload)
		}
		nameLen := int(data[offset])
		offset++
		if len(data) < offset+nameLen {
			return FileSpec{}, fmt.Errorf("%w: spec: truncated codec name", errs.ErrTruncatedPayload)
		}
		s.CodecNames[i] = string(data[offset : offset+nameLen])
		offset += nameLen
	}

	if len(data) < offset+16+2 {
		return FileSpec{}, fmt.Errorf("%w: spec: truncated UUID/version", errs.ErrTruncatedPayload)
	}
	id, err := uuid.FromBytes(data[offset : offset+16])
	if err != nil {
		return FileSpec{}, fmt.Errorf("%w: spec: %v", errs.ErrFormatError, err)
	}
	s.UUID = id
	offset += 16

	s.VersionMajor = data[offset]
	s.VersionMinor = data[offset+1]

	if s.VersionMajor != format.FormatVersionMajor {
		return FileSpec{}, fmt.Errorf("%w: spec: version %d.%d", errs.ErrUnsupportedVersion, s.VersionMajor, s.VersionMinor)
	}

	return s, s.Validate()
}
