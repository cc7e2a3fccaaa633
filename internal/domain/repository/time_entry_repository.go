package repository

import (
	"context"

	"github.com/tu-usuario/crm-pro/internal/domain/entity"
)

// TimeEntryRepository define el puerto de persistencia para TimeEntry.
type TimeEntryRepository interface {
	Create(ctx context.Context, e *entity.TimeEntry) error
	GetByID(ctx context.Context, id string) (*entity.TimeEntry, error)
	// ListByOrganization devuelve los registros del tenant con proyecto y tarea
	// embebidos, ordenados por start_time descendente.
	ListByOrganization(ctx context.Context, organizationID string) ([]*entity.TimeEntry, error)
	Update(ctx context.Context, e *entity.TimeEntry) error
	Delete(ctx context.Context, id string) error
}
