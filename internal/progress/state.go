package progress

import (
	"encoding/json"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/catalog"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
	pkgerrors "github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/errors"
)

// State is the field-key mapping for one client's checklist session. It is
// the single source of truth while the client is loaded; storage is written
// through but never read back mid-session.
//
// State is not safe for concurrent use; the owning session serializes
// access.
type State struct {
	fields map[domain.FieldKey]string
}

// NewState returns an empty progress state.
func NewState() *State {
	return &State{fields: make(map[domain.FieldKey]string)}
}

// SetApproval records the approval verdict for an item. The empty label is
// valid and means "not yet chosen".
func (s *State) SetApproval(itemID int, label domain.ApprovalLabel) error {
	if !label.IsValid() {
		return pkgerrors.New(pkgerrors.CodeInvalidInput, "invalid approval label")
	}
	s.fields[domain.FieldKey{ItemID: itemID, Kind: domain.FieldApproval}] = label.String()
	return nil
}

// SetEvidence stores sanitized evidence markup for an item.
func (s *State) SetEvidence(itemID int, raw string) {
	s.fields[domain.FieldKey{ItemID: itemID, Kind: domain.FieldEvidence}] = Sanitize(raw)
}

// Approval returns the recorded label for an item, ApprovalUnset when none.
func (s *State) Approval(itemID int) domain.ApprovalLabel {
	return domain.ApprovalLabel(s.fields[domain.FieldKey{ItemID: itemID, Kind: domain.FieldApproval}])
}

// Evidence returns the stored evidence for an item, empty when none.
func (s *State) Evidence(itemID int) string {
	return s.fields[domain.FieldKey{ItemID: itemID, Kind: domain.FieldEvidence}]
}

// Status derives the visual status for an item.
func (s *State) Status(itemID int) domain.ItemStatus {
	return domain.StatusFor(s.Approval(itemID), s.Evidence(itemID) != "")
}

// ClearAll removes both field kinds for each given item id.
func (s *State) ClearAll(itemIDs []int) {
	for _, id := range itemIDs {
		delete(s.fields, domain.FieldKey{ItemID: id, Kind: domain.FieldApproval})
		delete(s.fields, domain.FieldKey{ItemID: id, Kind: domain.FieldEvidence})
	}
}

// Clone returns an independent copy, used to hand exports a stable view
// while the session keeps editing.
func (s *State) Clone() *State {
	dup := &State{fields: make(map[domain.FieldKey]string, len(s.fields))}
	for k, v := range s.fields {
		dup.fields[k] = v
	}
	return dup
}

// Len returns the number of populated fields, stale keys included.
func (s *State) Len() int {
	return len(s.fields)
}

// CountSummary aggregates derived statuses across an item list.
//
// Approved/Rejected compare the stored label against the legacy lowercase
// "si"/"no" tokens. Those tokens never match the labels the portal actually
// stores ("Aprobado"/"No aprobado"), so both sub-counts are zero in
// practice. The comparison is preserved deliberately: downstream consumers
// (the summary export) have always received these figures, and changing
// them is a product decision, not a port.
type CountSummary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
}

const (
	legacyApprovedToken = "si"
	legacyRejectedToken = "no"
)

// Counts computes the aggregate summary for items against this state.
func (s *State) Counts(items []catalog.Item) CountSummary {
	summary := CountSummary{Total: len(items)}
	for _, item := range items {
		label := s.Approval(item.ID)
		if label != domain.ApprovalUnset && s.Evidence(item.ID) != "" {
			summary.Completed++
			switch label.String() {
			case legacyApprovedToken:
				summary.Approved++
			case legacyRejectedToken:
				summary.Rejected++
			}
		} else {
			summary.Pending++
		}
	}
	return summary
}

// MarshalJSON renders the state in the legacy wire format, a flat object
// keyed "aprobado_<id>" / "evidencias_<id>".
func (s *State) MarshalJSON() ([]byte, error) {
	flat := make(map[string]string, len(s.fields))
	for k, v := range s.fields {
		flat[k.StorageKey()] = v
	}
	return json.Marshal(flat)
}

// UnmarshalJSON decodes the legacy wire format. Unrecognized keys are
// dropped; the historical "observaciones_<id>" evidence alias is folded into
// the evidence field when no newer value is present. Evidence passes through
// Sanitize so pre-normalization blobs load into normal form.
func (s *State) UnmarshalJSON(data []byte) error {
	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	if s.fields == nil {
		s.fields = make(map[domain.FieldKey]string, len(flat))
	}
	// Two passes so a canonical "evidencias_<id>" always wins over the alias
	// regardless of map iteration order.
	for raw, v := range flat {
		key, ok := domain.ParseFieldKey(raw)
		if !ok {
			continue
		}
		if key.Kind == domain.FieldEvidence {
			v = Sanitize(v)
		}
		if _, exists := s.fields[key]; !exists {
			s.fields[key] = v
		}
	}
	for raw, v := range flat {
		key, ok := domain.ParseFieldKey(raw)
		if !ok || raw != key.StorageKey() {
			continue
		}
		if key.Kind == domain.FieldEvidence {
			v = Sanitize(v)
		}
		s.fields[key] = v
	}
	return nil
}
