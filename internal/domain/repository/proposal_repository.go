package repository

import (
	"context"

	"github.com/tu-usuario/crm-pro/internal/domain/entity"
)

// ProposalRepository define el puerto de persistencia para Proposal.
type ProposalRepository interface {
	Create(ctx context.Context, p *entity.Proposal) error
	GetByID(ctx context.Context, id string) (*entity.Proposal, error)
	// ListByOrganization devuelve las propuestas del tenant con cliente y lead
	// embebidos, más recientes primero.
	ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Proposal, error)
	Update(ctx context.Context, p *entity.Proposal) error
	Delete(ctx context.Context, id string) error
}
