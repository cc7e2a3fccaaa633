package repository

import (
	"context"

	"github.com/tu-usuario/crm-pro/internal/domain/entity"
)

// OrganizationRepository define el puerto de persistencia para Organization.
// GetByID y GetBySlug devuelven (nil, nil) si no existe.
type OrganizationRepository interface {
	Create(ctx context.Context, o *entity.Organization) error
	GetByID(ctx context.Context, id string) (*entity.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Organization, error)
	Update(ctx context.Context, o *entity.Organization) error
	UpdateStatus(ctx context.Context, id, status string) error
}
