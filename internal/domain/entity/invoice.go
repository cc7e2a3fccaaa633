package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados válidos de factura (enum invoice_status).
const (
	InvoiceDraft     = "draft"
	InvoiceSent      = "sent"
	InvoicePaid      = "paid"
	InvoiceOverdue   = "overdue"
	InvoiceCancelled = "cancelled"
)

// Invoice representa una factura emitida a un cliente (scoped por organización).
// TotalAmount es un campo derivado: SIEMPRE se recalcula como Amount + TaxAmount
// en creación y en cualquier actualización que toque Amount o TaxAmount. Nunca
// se confía en un total suministrado por el caller.
type Invoice struct {
	ID             string
	OrganizationID string
	ClientID       string
	ProjectID      string // opcional
	InvoiceNumber  string
	Status         string // ver constantes Invoice*
	Amount         decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal // derivado, ver ComputeTotal
	IssueDate      time.Time
	DueDate        time.Time
	PaidDate       *time.Time
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Se llenan en listados (joins con clients y projects).
	Client  *ClientRef
	Project *ProjectRef
}

// ComputeTotal recalcula TotalAmount = Amount + TaxAmount.
func (i *Invoice) ComputeTotal() {
	i.TotalAmount = i.Amount.Add(i.TaxAmount)
}

// IsValidInvoiceStatus valida el enum invoice_status.
func IsValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return true
	}
	return false
}
