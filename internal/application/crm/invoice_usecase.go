package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/crm-pro/internal/application/dto"
	"github.com/tu-usuario/crm-pro/internal/cache"
	"github.com/tu-usuario/crm-pro/internal/domain"
	"github.com/tu-usuario/crm-pro/internal/domain/entity"
	"github.com/tu-usuario/crm-pro/internal/domain/repository"
)

// InvoiceUseCase casos de uso de facturas, incluida la exportación PDF/XML.
type InvoiceUseCase struct {
	repo  repository.InvoiceRepository
	orgs  repository.OrganizationRepository
	pdf   InvoicePDFGenerator
	xml   InvoiceXMLExporter
	cache *cache.Store

	// now inyectable para tests de numeración.
	now func() time.Time
}

// NewInvoiceUseCase construye el caso de uso de facturas.
func NewInvoiceUseCase(
	repo repository.InvoiceRepository,
	orgs repository.OrganizationRepository,
	pdf InvoicePDFGenerator,
	xml InvoiceXMLExporter,
	cacheStore *cache.Store,
) *InvoiceUseCase {
	return &InvoiceUseCase{repo: repo, orgs: orgs, pdf: pdf, xml: xml, cache: cacheStore, now: time.Now}
}

// List devuelve las facturas del tenant con cliente y proyecto embebidos (cacheado).
func (uc *InvoiceUseCase) List(ctx context.Context, organizationID string) ([]*dto.InvoiceResponse, error) {
	key := cache.Key{Entity: "invoices", TenantID: organizationID}
	return cache.GetTyped(ctx, uc.cache, key, func(ctx context.Context) ([]*dto.InvoiceResponse, error) {
		invoices, err := uc.repo.ListByOrganization(ctx, organizationID)
		if err != nil {
			return nil, err
		}
		out := make([]*dto.InvoiceResponse, 0, len(invoices))
		for _, i := range invoices {
			out = append(out, toInvoiceResponse(i))
		}
		return out, nil
	})
}

// Create da de alta una factura. El total SIEMPRE se deriva de amount +
// tax_amount; el número de factura se genera si viene vacío.
func (uc *InvoiceUseCase) Create(ctx context.Context, organizationID, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := requireTenant(organizationID); err != nil {
		return nil, err
	}
	if in.ClientID == "" {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = entity.InvoiceDraft
	}
	if !entity.IsValidInvoiceStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	if in.Amount.IsNegative() || in.TaxAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	number := in.InvoiceNumber
	if number == "" {
		number = fmt.Sprintf("INV-%d", now.UnixMilli())
	}
	issueDate := in.IssueDate
	if issueDate.IsZero() {
		issueDate = now
	}
	inv := &entity.Invoice{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		ClientID:       in.ClientID,
		ProjectID:      in.ProjectID,
		InvoiceNumber:  number,
		Status:         status,
		Amount:         in.Amount,
		TaxAmount:      in.TaxAmount,
		IssueDate:      issueDate,
		DueDate:        in.DueDate,
		Notes:          in.Notes,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	inv.ComputeTotal()
	if err := uc.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	uc.cache.Invalidate("invoices")
	return toInvoiceResponse(inv), nil
}

// Update edita parcialmente una factura del tenant. Cualquier cambio recalcula
// el total: nunca se confía en un total suministrado por el caller.
func (uc *InvoiceUseCase) Update(ctx context.Context, organizationID, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.getOwned(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if in.ClientID != nil {
		if *in.ClientID == "" {
			return nil, domain.ErrInvalidInput
		}
		inv.ClientID = *in.ClientID
	}
	if in.ProjectID != nil {
		inv.ProjectID = *in.ProjectID
	}
	if in.InvoiceNumber != nil {
		if *in.InvoiceNumber == "" {
			return nil, domain.ErrInvalidInput
		}
		inv.InvoiceNumber = *in.InvoiceNumber
	}
	if in.Status != nil {
		if !entity.IsValidInvoiceStatus(*in.Status) {
			return nil, domain.ErrInvalidInput
		}
		inv.Status = *in.Status
	}
	if in.Amount != nil {
		if in.Amount.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		inv.Amount = *in.Amount
	}
	if in.TaxAmount != nil {
		if in.TaxAmount.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		inv.TaxAmount = *in.TaxAmount
	}
	if in.IssueDate != nil {
		inv.IssueDate = *in.IssueDate
	}
	if in.DueDate != nil {
		inv.DueDate = *in.DueDate
	}
	if in.PaidDate != nil {
		inv.PaidDate = in.PaidDate
	}
	if in.Notes != nil {
		inv.Notes = *in.Notes
	}
	inv.ComputeTotal()
	inv.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	uc.cache.Invalidate("invoices")
	return toInvoiceResponse(inv), nil
}

// Delete elimina una factura del tenant.
func (uc *InvoiceUseCase) Delete(ctx context.Context, organizationID, id string) error {
	if _, err := uc.getOwned(ctx, organizationID, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.cache.Invalidate("invoices")
	return nil
}

// ExportPDF genera el PDF de una factura del tenant.
func (uc *InvoiceUseCase) ExportPDF(ctx context.Context, organizationID, id string) ([]byte, error) {
	inv, org, err := uc.getForExport(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return uc.pdf.Generate(inv, org)
}

// ExportXML genera el XML de una factura del tenant.
func (uc *InvoiceUseCase) ExportXML(ctx context.Context, organizationID, id string) ([]byte, error) {
	inv, org, err := uc.getForExport(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return uc.xml.Export(inv, org)
}

func (uc *InvoiceUseCase) getForExport(ctx context.Context, organizationID, id string) (*entity.Invoice, *entity.Organization, error) {
	inv, err := uc.getOwned(ctx, organizationID, id)
	if err != nil {
		return nil, nil, err
	}
	org, err := uc.orgs.GetByID(ctx, organizationID)
	if err != nil {
		return nil, nil, err
	}
	if org == nil {
		return nil, nil, domain.ErrNotFound
	}
	return inv, org, nil
}

func (uc *InvoiceUseCase) getOwned(ctx context.Context, organizationID, id string) (*entity.Invoice, error) {
	if err := requireTenant(organizationID); err != nil {
		return nil, err
	}
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func toInvoiceResponse(i *entity.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:             i.ID,
		OrganizationID: i.OrganizationID,
		ClientID:       i.ClientID,
		ProjectID:      i.ProjectID,
		InvoiceNumber:  i.InvoiceNumber,
		Status:         i.Status,
		Amount:         i.Amount,
		TaxAmount:      i.TaxAmount,
		TotalAmount:    i.TotalAmount,
		IssueDate:      i.IssueDate,
		DueDate:        i.DueDate,
		PaidDate:       i.PaidDate,
		Notes:          i.Notes,
		CreatedBy:      i.CreatedBy,
		Client:         toClientRefResponse(i.Client),
		Project:        toProjectRefResponse(i.Project),
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}
