package native

import (
	"encoding/json"
	"fmt"

	"keyward/internal/domain"
)

// recordFormatVersion is the current serialized private record format.
const recordFormatVersion = 1

// serializedRecord is the library's private record envelope. It is
// opaque to everything outside this package: stores persist it as bytes
// and the dispatch bridge returns it as bytes.
type serializedRecord struct {
	V       int               `json:"v"`
	Kind    domain.RecordKind `json:"kind"`
	ID      domain.RecordID   `json:"id"`
	Private []byte            `json:"private"`
	Public  []byte            `json:"public"`
	Sig     []byte            `json:"sig,omitempty"`
	At      int64             `json:"at"`
}

func (r serializedRecord) marshal() ([]byte, error) {
	return json.Marshal(r)
}

// DeserializeRecord parses a serialized private record. It exists for
// the library's own key-agreement path; other packages treat the bytes
// as opaque.
func DeserializeRecord(b []byte) (kind domain.RecordKind, id domain.RecordID, private []byte, err error) {
	var r serializedRecord
	if err = json.Unmarshal(b, &r); err != nil {
		return "", 0, nil, err
	}
	if r.V > recordFormatVersion {
		return "", 0, nil, fmt.Errorf("unsupported record version %d", r.V)
	}
	return r.Kind, r.ID, r.Private, nil
}
