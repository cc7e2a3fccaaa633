// Package xmlexport genera la representación XML de una factura para
// integraciones contables externas.
package xmlexport

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/tu-usuario/crm-pro/internal/application/crm"
	"github.com/tu-usuario/crm-pro/internal/domain/entity"
)

var _ crm.InvoiceXMLExporter = (*Exporter)(nil)

// Exporter implementa crm.InvoiceXMLExporter usando etree.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// Export serializa la factura como documento XML.
func (e *Exporter) Export(inv *entity.Invoice, org *entity.Organization) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Invoice")
	root.CreateAttr("id", inv.ID)

	root.CreateElement("Number").SetText(inv.InvoiceNumber)
	root.CreateElement("Status").SetText(inv.Status)
	root.CreateElement("IssueDate").SetText(inv.IssueDate.Format("2006-01-02"))
	root.CreateElement("DueDate").SetText(inv.DueDate.Format("2006-01-02"))
	if inv.PaidDate != nil {
		root.CreateElement("PaidDate").SetText(inv.PaidDate.Format("2006-01-02"))
	}

	seller := root.CreateElement("Seller")
	seller.CreateElement("Name").SetText(org.Name)
	seller.CreateElement("Slug").SetText(org.Slug)

	buyer := root.CreateElement("Buyer")
	buyer.CreateAttr("clientId", inv.ClientID)
	if inv.Client != nil {
		buyer.CreateElement("Name").SetText(inv.Client.Name)
		if inv.Client.Company != "" {
			buyer.CreateElement("Company").SetText(inv.Client.Company)
		}
	}
	if inv.Project != nil {
		project := root.CreateElement("Project")
		project.CreateAttr("id", inv.Project.ID)
		project.SetText(inv.Project.Name)
	}

	amounts := root.CreateElement("Amounts")
	amounts.CreateElement("Subtotal").SetText(inv.Amount.StringFixed(2))
	amounts.CreateElement("Tax").SetText(inv.TaxAmount.StringFixed(2))
	amounts.CreateElement("Total").SetText(inv.TotalAmount.StringFixed(2))

	if inv.Notes != "" {
		root.CreateElement("Notes").SetText(inv.Notes)
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xml: serializar factura: %w", err)
	}
	return out, nil
}
