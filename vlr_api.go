package gvrs

import (
	"fmt"

	"github.com/gridfour/gvrs/errs"
	"github.com/gridfour/gvrs/vlr"
)

// StoreVariableLengthRecord writes a new VLR to the file (spec.md §4.13
// storeVariableLengthRecord): userID and recordID together form its
// identity; payload is an opaque byte or text blob up to 2^31-1 bytes.
func (f *File) StoreVariableLengthRecord(userID string, recordID int32, description string, isText bool, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != stateOpenWrite {
		return fmt.Errorf("%w: gvrs: file is not open for writing", errs.ErrNotOpenForWrite)
	}

	record, err := vlr.New(userID, recordID, description, isText, payload)
	if err != nil {
		return err
	}

	_, err = f.store.AllocateNonTileRecord(8, record)

	return err
}

// VariableLengthRecords returns every VLR stored in the file, in the order
// they were written (spec.md §4.13 getVariableLengthRecords).
func (f *File) VariableLengthRecords() []vlr.Record {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.store.VariableLengthRecords()
}
