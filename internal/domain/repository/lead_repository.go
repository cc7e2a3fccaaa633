package repository

import (
	"context"

	"github.com/tu-usuario/crm-pro/internal/domain/entity"
)

// LeadRepository define el puerto de persistencia para Lead.
type LeadRepository interface {
	Create(ctx context.Context, l *entity.Lead) error
	GetByID(ctx context.Context, id string) (*entity.Lead, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Lead, error)
	Update(ctx context.Context, l *entity.Lead) error
	Delete(ctx context.Context, id string) error
}
