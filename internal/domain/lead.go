package domain

import "time"

// LeadKind identifies which marketing-site form produced a lead.
type LeadKind string

const (
	LeadKindContact LeadKind = "contact"
	LeadKindPartner LeadKind = "partner"
	LeadKindSupport LeadKind = "support"
)

// ValidLeadKind reports whether the given value names a known form.
func ValidLeadKind(v string) bool {
	switch LeadKind(v) {
	case LeadKindContact, LeadKindPartner, LeadKindSupport:
		return true
	}
	return false
}

// LeadRequest carries the untrusted fields of a lead-capture form submission.
type LeadRequest struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Lead is a persisted lead-capture submission.
type Lead struct {
	ID        string
	Kind      LeadKind
	Name      string
	Email     string
	Subject   string
	Message   string
	IPAddress string
	CreatedAt time.Time
}
