package repository

import (
	"context"

	"github.com/tu-usuario/crm-pro/internal/domain/entity"
)

// TaskRepository define el puerto de persistencia para Task y Subtask.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	// ListByOrganization devuelve las tareas del tenant con proyecto, cliente y
	// subtareas embebidos, más recientes primero. projectID opcional filtra por proyecto.
	ListByOrganization(ctx context.Context, organizationID, projectID string) ([]*entity.Task, error)
	Update(ctx context.Context, t *entity.Task) error
	Delete(ctx context.Context, id string) error

	CreateSubtask(ctx context.Context, s *entity.Subtask) error
	GetSubtaskByID(ctx context.Context, id string) (*entity.Subtask, error)
	UpdateSubtask(ctx context.Context, s *entity.Subtask) error
	DeleteSubtask(ctx context.Context, id string) error
}
