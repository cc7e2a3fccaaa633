package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeadRefResponse referencia embebida de lead en otras respuestas.
type LeadRefResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
}

// CreateProposalRequest alta de propuesta, dirigida a un cliente o a un lead.
type CreateProposalRequest struct {
	ClientID   string          `json:"client_id"`
	LeadID     string          `json:"lead_id"`
	Title      string          `json:"title" validate:"required"`
	Content    string          `json:"content"`
	Status     string          `json:"status"`
	Amount     decimal.Decimal `json:"amount"`
	ValidUntil *time.Time      `json:"valid_until"`
}

// UpdateProposalRequest edición parcial de propuesta.
type UpdateProposalRequest struct {
	ClientID   *string          `json:"client_id"`
	LeadID     *string          `json:"lead_id"`
	Title      *string          `json:"title"`
	Content    *string          `json:"content"`
	Status     *string          `json:"status"`
	Amount     *decimal.Decimal `json:"amount"`
	ValidUntil *time.Time       `json:"valid_until"`
}

// ProposalResponse propuesta expuesta por la API.
type ProposalResponse struct {
	ID             string             `json:"id"`
	OrganizationID string             `json:"organization_id"`
	ClientID       string             `json:"client_id,omitempty"`
	LeadID         string             `json:"lead_id,omitempty"`
	Title          string             `json:"title"`
	Content        string             `json:"content,omitempty"`
	Status         string             `json:"status"`
	Amount         decimal.Decimal    `json:"amount"`
	ValidUntil     *time.Time         `json:"valid_until,omitempty"`
	CreatedBy      string             `json:"created_by,omitempty"`
	Client         *ClientRefResponse `json:"client,omitempty"`
	Lead           *LeadRefResponse   `json:"lead,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}
