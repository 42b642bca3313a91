// Package models defines data structures for thirteenf
package models

// FilingStatus is the change marker printed next to a security in the
// Official List of Section 13(f) Securities.
type FilingStatus string

const (
	FilingStatusNone    FilingStatus = ""
	FilingStatusAdded   FilingStatus = "ADDED"
	FilingStatusDeleted FilingStatus = "DELETED"
)

// FilingRecord is one security parsed from the 13(f) list.
type FilingRecord struct {
	Identifier        string       `json:"cusip_no"` // CUSIP, whitespace stripped
	IssuerName        string       `json:"issuer_name"`
	IssuerDescription string       `json:"issuer_description"`
	Status            FilingStatus `json:"status"`
}

// Merge overwrites the receiver's fields with the non-empty fields of other.
func (r *FilingRecord) Merge(other FilingRecord) {
	if other.Identifier != "" {
		r.Identifier = other.Identifier
	}
	if other.IssuerName != "" {
		r.IssuerName = other.IssuerName
	}
	if other.IssuerDescription != "" {
		r.IssuerDescription = other.IssuerDescription
	}
	if other.Status != FilingStatusNone {
		r.Status = other.Status
	}
}
