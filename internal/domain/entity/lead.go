package entity

import "time"

// Estados válidos de lead (enum lead_status).
const (
	LeadNew         = "new"
	LeadContacted   = "contacted"
	LeadQualified   = "qualified"
	LeadProposal    = "proposal"
	LeadNegotiation = "negotiation"
	LeadWon         = "won"
	LeadLost        = "lost"
)

// Lead representa un prospecto comercial aún no convertido en cliente.
type Lead struct {
	ID             string
	OrganizationID string
	Name           string
	Company        string
	Email          string
	Phone          string
	Source         string
	Status         string // ver constantes Lead*
	Score          int
	Notes          string
	AssignedTo     string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LeadRef referencia embebida de lead en listados (propuestas).
type LeadRef struct {
	ID      string
	Name    string
	Company string
}

// IsValidLeadStatus valida el enum lead_status.
func IsValidLeadStatus(s string) bool {
	switch s {
	case LeadNew, LeadContacted, LeadQualified, LeadProposal, LeadNegotiation, LeadWon, LeadLost:
		return true
	}
	return false
}
