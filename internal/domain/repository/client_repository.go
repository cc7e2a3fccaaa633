package repository

import (
	"context"

	"github.com/tu-usuario/crm-pro/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
// Todas las operaciones de lectura scoped filtran por organization_id en SQL;
// la capa de aplicación además verifica pertenencia en mutaciones por id.
type ClientRepository interface {
	Create(ctx context.Context, c *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	// ListByOrganization devuelve los clientes del tenant, más recientes primero.
	ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Client, error)
	Update(ctx context.Context, c *entity.Client) error
	Delete(ctx context.Context, id string) error
}
