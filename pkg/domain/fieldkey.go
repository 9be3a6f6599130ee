package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldKind is the closed set of per-item field kinds. Replacing the old
// free-form "aprobado_<id>"/"evidencias_<id>" string keys with a typed pair
// removes key-construction typos as a bug class.
type FieldKind string

const (
	FieldApproval FieldKind = "aprobado"
	FieldEvidence FieldKind = "evidencias"
)

// legacyEvidenceKind is an alias some historical blobs used for the
// evidence field. Accepted on load, never written.
const legacyEvidenceKind = "observaciones"

// FieldKey addresses one piece of progress data.
type FieldKey struct {
	ItemID int
	Kind   FieldKind
}

// StorageKey renders the key in the legacy wire format so saved blobs stay
// readable by every version of the portal.
func (k FieldKey) StorageKey() string {
	return fmt.Sprintf("%s_%d", k.Kind, k.ItemID)
}

// ParseFieldKey decodes a legacy wire key. The historical evidence alias
// maps onto FieldEvidence.
func ParseFieldKey(s string) (FieldKey, bool) {
	idx := strings.LastIndexByte(s, '_')
	if idx <= 0 || idx == len(s)-1 {
		return FieldKey{}, false
	}
	id, err := strconv.Atoi(s[idx+1:])
	if err != nil || id <= 0 {
		return FieldKey{}, false
	}
	switch s[:idx] {
	case string(FieldApproval):
		return FieldKey{ItemID: id, Kind: FieldApproval}, true
	case string(FieldEvidence), legacyEvidenceKind:
		return FieldKey{ItemID: id, Kind: FieldEvidence}, true
	}
	return FieldKey{}, false
}
