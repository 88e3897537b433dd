package vlr

import (
	"fmt"

	"github.com/gridfour/gvrs/endian"
	"github.com/gridfour/gvrs/errs"
)

const (
	userIDSize      = 16
	descriptionSize = 32
	reservedSize    = 7

	// HeaderSize is the fixed-width portion of a serialized record preceding
	// its payload (spec.md §6 VLR wire format): userId + recordId +
	// payloadSize + description + isPayloadText + reserved.
	HeaderSize = userIDSize + 4 + 4 + descriptionSize + 1 + reservedSize
)

// Record is a Variable-Length Record: an opaque byte or text payload
// identified by (userID, recordID) (spec.md §3).
type Record struct {
	UserID      string
	RecordID    int32
	Description string
	IsText      bool
	Payload     []byte
}

// New builds a Record, validating the ASCII field-width limits (spec.md §6).
func New(userID string, recordID int32, description string, isText bool, payload []byte) (Record, error) {
	r := Record{UserID: userID, RecordID: recordID, Description: description, IsText: isText, Payload: payload}

	return r, r.Validate()
}

// Validate checks the field widths spec.md §6 fixes for userId/description.
func (r Record) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("%w: vlr: empty userId", errs.ErrEmptyString)
	}
	if len(r.UserID) > userIDSize {
		return fmt.Errorf("%w: vlr: userId %q exceeds %d bytes", errs.ErrStringTooLong, r.UserID, userIDSize)
	}
	if len(r.Description) > descriptionSize {
		return fmt.Errorf("%w: vlr: description %q exceeds %d bytes", errs.ErrStringTooLong, r.Description, descriptionSize)
	}
	if r.RecordID < 0 || r.RecordID > 65535 {
		return fmt.Errorf("%w: vlr: recordId %d out of range", errs.ErrMalformedVLR, r.RecordID)
	}

	return nil
}

func padASCII(s string, width int) []byte {
	buf := make([]byte, width)
	copy(buf, s)

	return buf
}

// Bytes serializes the record's header and payload (spec.md §6).
func (r Record) Bytes() []byte {
	engine := endian.GetLittleEndianEngine()

	buf := make([]byte, 0, HeaderSize+len(r.Payload))
	buf = append(buf, padASCII(r.UserID, userIDSize)...)
	buf = engine.AppendUint32(buf, uint32(r.RecordID))
	buf = engine.AppendUint32(buf, uint32(len(r.Payload)))
	buf = append(buf, padASCII(r.Description, descriptionSize)...)
	if r.IsText {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = append(buf, make([]byte, reservedSize)...)
	buf = append(buf, r.Payload...)

	return buf
}

func trimPadding(b []byte) string {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}

	return string(b[:n])
}

// Parse reads one Record from the front of data and returns the number of
// bytes consumed.
func Parse(data []byte) (Record, int, error) {
	if len(data) < HeaderSize {
		return Record{}, 0, fmt.Errorf("%w: vlr: truncated header", errs.ErrTruncatedPayload)
	}

	engine := endian.GetLittleEndianEngine()

	offset := 0
	userID := trimPadding(data[offset : offset+userIDSize])
	offset += userIDSize

	recordID := int32(engine.Uint32(data[offset : offset+4]))
	offset += 4

	payloadSize := int(engine.Uint32(data[offset : offset+4]))
	offset += 4

	description := trimPadding(data[offset : offset+descriptionSize])
	offset += descriptionSize

	isText := data[offset] != 0
	offset++

	offset += reservedSize

	if len(data) < offset+payloadSize {
		return Record{}, 0, fmt.Errorf("%w: vlr: truncated payload", errs.ErrTruncatedPayload)
	}

	payload := make([]byte, payloadSize)
	copy(payload, data[offset:offset+payloadSize])
	offset += payloadSize

	return Record{UserID: userID, RecordID: recordID, Description: description, IsText: isText, Payload: payload}, offset, nil
}
