package repository

import (
	"context"

	"github.com/tu-usuario/crm-pro/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	Create(ctx context.Context, i *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// ListByOrganization devuelve las facturas del tenant con cliente y proyecto
	// embebidos, más recientes primero.
	ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Invoice, error)
	Update(ctx context.Context, i *entity.Invoice) error
	Delete(ctx context.Context, id string) error
}
