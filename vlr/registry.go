package vlr

import (
	"strings"
)

// RegistryUserID is the userID of the standard codec-registry VLR
// (spec.md §4.9, §6).
const RegistryUserID = "GvrsCompressionCodecs"

// EncodeRegistry builds the text payload of the standard registry VLR: a
// CSV-like list of codec names, one per line, in registry-index order
// (spec.md §6: "text payload is a CSV-like list of codec IDs").
func EncodeRegistry(codecNames []string) Record {
	payload := strings.Join(codecNames, "\n")

	return Record{
		UserID:      RegistryUserID,
		RecordID:    0,
		Description: "codec registry",
		IsText:      true,
		Payload:     []byte(payload),
	}
}

// DecodeRegistry parses a registry VLR's payload back into an ordered codec
// name list.
func DecodeRegistry(r Record) []string {
	text := strings.TrimRight(string(r.Payload), "\n")
	if text == "" {
		return nil
	}

	return strings.Split(text, "\n")
}
