package repository

import (
	"context"

	"github.com/tu-usuario/crm-pro/internal/domain/entity"
)

// ProfileRepository define el puerto de persistencia para Profile.
// GetByID y GetByEmail devuelven (nil, nil) si el perfil no existe.
type ProfileRepository interface {
	Create(ctx context.Context, p *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	GetByEmail(ctx context.Context, email string) (*entity.Profile, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Profile, error)
	// Update persiste los campos editables por el propio usuario
	// (first_name, last_name, avatar_url, settings, status, updated_at).
	Update(ctx context.Context, p *entity.Profile) error
	// UpdateRole cambia solo el rol (flujo administrativo).
	UpdateRole(ctx context.Context, id, role string) error
	// AssignOrganization vincula el perfil a un tenant (sale del estado "setup required").
	AssignOrganization(ctx context.Context, id, organizationID string) error
}
