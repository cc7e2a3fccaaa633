package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados válidos de propuesta (enum proposal_status).
const (
	ProposalDraft    = "draft"
	ProposalSent     = "sent"
	ProposalAccepted = "accepted"
	ProposalRejected = "rejected"
)

// Proposal representa una propuesta comercial dirigida a un cliente o a un lead.
type Proposal struct {
	ID             string
	OrganizationID string
	ClientID       string // opcional (propuesta a cliente existente)
	LeadID         string // opcional (propuesta a lead)
	Title          string
	Content        string
	Status         string // draft, sent, accepted, rejected
	Amount         decimal.Decimal
	ValidUntil     *time.Time
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Se llenan en listados (joins con clients y leads).
	Client *ClientRef
	Lead   *LeadRef
}

// IsValidProposalStatus valida el enum proposal_status.
func IsValidProposalStatus(s string) bool {
	switch s {
	case ProposalDraft, ProposalSent, ProposalAccepted, ProposalRejected:
		return true
	}
	return false
}
