package domain

import (
	pkgerrors "github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/errors"
)

// ApprovalLabel is the compliance verdict recorded for one checklist item.
// The empty label means "not yet chosen" and is always accepted.
//
// The non-empty values are the exact tokens the portal has always stored;
// they are user-facing Spanish strings and must not be translated.
type ApprovalLabel string

const (
	ApprovalUnset      ApprovalLabel = ""
	ApprovalApproved   ApprovalLabel = "Aprobado"
	ApprovalRejected   ApprovalLabel = "No aprobado"
	ApprovalNotApplies ApprovalLabel = "No aplica"
)

var validApprovalLabels = map[ApprovalLabel]bool{
	ApprovalUnset:      true,
	ApprovalApproved:   true,
	ApprovalRejected:   true,
	ApprovalNotApplies: true,
}

// ParseApprovalLabel constructs an ApprovalLabel from external input.
// Empty input is valid and yields ApprovalUnset.
func ParseApprovalLabel(s string) (ApprovalLabel, error) {
	l := ApprovalLabel(s)
	if !validApprovalLabels[l] {
		return "", pkgerrors.New(pkgerrors.CodeInvalidInput, "invalid approval label")
	}
	return l, nil
}

// IsValid checks if the label is one of the supported values.
func (l ApprovalLabel) IsValid() bool {
	return validApprovalLabels[l]
}

// String returns the string representation of the label.
func (l ApprovalLabel) String() string {
	return string(l)
}

// ItemStatus is the derived visual status of one checklist item. It is a
// pure function of (approval label, evidence non-empty) and is never stored.
type ItemStatus string

const (
	StatusPending       ItemStatus = "pending"
	StatusApproved      ItemStatus = "approved"
	StatusRejected      ItemStatus = "rejected"
	StatusNotApplicable ItemStatus = "not-applicable"
)

// StatusFor derives the item status. An item is only resolved when BOTH an
// approval label is chosen and evidence is non-empty; otherwise it stays
// pending regardless of the label.
func StatusFor(label ApprovalLabel, hasEvidence bool) ItemStatus {
	if label == ApprovalUnset || !hasEvidence {
		return StatusPending
	}
	switch label {
	case ApprovalApproved:
		return StatusApproved
	case ApprovalRejected:
		return StatusRejected
	case ApprovalNotApplies:
		return StatusNotApplicable
	}
	return StatusPending
}
