package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest alta de factura. TotalAmount no se acepta del caller:
// siempre se deriva como amount + tax_amount. InvoiceNumber vacío genera uno.
type CreateInvoiceRequest struct {
	ClientID      string          `json:"client_id" validate:"required"`
	ProjectID     string          `json:"project_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       time.Time       `json:"due_date"`
	Notes         string          `json:"notes"`
}

// UpdateInvoiceRequest edición parcial de factura. Cualquier cambio en amount
// o tax_amount recalcula el total en el servidor.
type UpdateInvoiceRequest struct {
	ClientID      *string          `json:"client_id"`
	ProjectID     *string          `json:"project_id"`
	InvoiceNumber *string          `json:"invoice_number"`
	Status        *string          `json:"status"`
	Amount        *decimal.Decimal `json:"amount"`
	TaxAmount     *decimal.Decimal `json:"tax_amount"`
	IssueDate     *time.Time       `json:"issue_date"`
	DueDate       *time.Time       `json:"due_date"`
	PaidDate      *time.Time       `json:"paid_date"`
	Notes         *string          `json:"notes"`
}

// InvoiceResponse factura expuesta por la API.
type InvoiceResponse struct {
	ID             string              `json:"id"`
	OrganizationID string              `json:"organization_id"`
	ClientID       string              `json:"client_id"`
	ProjectID      string              `json:"project_id,omitempty"`
	InvoiceNumber  string              `json:"invoice_number"`
	Status         string              `json:"status"`
	Amount         decimal.Decimal     `json:"amount"`
	TaxAmount      decimal.Decimal     `json:"tax_amount"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	IssueDate      time.Time           `json:"issue_date"`
	DueDate        time.Time           `json:"due_date"`
	PaidDate       *time.Time          `json:"paid_date,omitempty"`
	Notes          string              `json:"notes,omitempty"`
	CreatedBy      string              `json:"created_by,omitempty"`
	Client         *ClientRefResponse  `json:"client,omitempty"`
	Project        *ProjectRefResponse `json:"project,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}
