package crm

import (
	"github.com/tu-usuario/crm-pro/internal/domain/entity"
)

// InvoicePDFGenerator genera la representación PDF de una factura.
type InvoicePDFGenerator interface {
	Generate(inv *entity.Invoice, org *entity.Organization) ([]byte, error)
}

// InvoiceXMLExporter genera la representación XML de una factura.
type InvoiceXMLExporter interface {
	Export(inv *entity.Invoice, org *entity.Organization) ([]byte, error)
}
