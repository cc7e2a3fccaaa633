package crm

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/crm-pro/internal/application/dto"
	"github.com/tu-usuario/crm-pro/internal/cache"
	"github.com/tu-usuario/crm-pro/internal/domain"
	"github.com/tu-usuario/crm-pro/internal/domain/entity"
	"github.com/tu-usuario/crm-pro/internal/domain/repository"
)

// TaskUseCase casos de uso de tareas y subtareas.
type TaskUseCase struct {
	repo  repository.TaskRepository
	cache *cache.Store

	// now inyectable para tests de la regla de completed_at.
	now func() time.Time
}

// NewTaskUseCase construye el caso de uso de tareas.
func NewTaskUseCase(repo repository.TaskRepository, cacheStore *cache.Store) *TaskUseCase {
	return &TaskUseCase{repo: repo, cache: cacheStore, now: time.Now}
}

// List devuelve las tareas del tenant con referencias y subtareas embebidas
// (cacheado; el filtro opcional por proyecto forma parte de la clave).
func (uc *TaskUseCase) List(ctx context.Context, organizationID, projectID string) ([]*dto.TaskResponse, error) {
	key := cache.Key{Entity: "tasks", TenantID: organizationID, Params: cache.Params("project", projectID)}
	return cache.GetTyped(ctx, uc.cache, key, func(ctx context.Context) ([]*dto.TaskResponse, error) {
		tasks, err := uc.repo.ListByOrganization(ctx, organizationID, projectID)
		if err != nil {
			return nil, err
		}
		out := make([]*dto.TaskResponse, 0, len(tasks))
		for _, t := range tasks {
			out = append(out, toTaskResponse(t))
		}
		return out, nil
	})
}

// Create da de alta una tarea estampando organization_id y created_by.
func (uc *TaskUseCase) Create(ctx context.Context, organizationID, userID string, in dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if err := requireTenant(organizationID); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = entity.TaskTodo
	}
	if !entity.IsValidTaskStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	priority := in.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	if !entity.IsValidTaskPriority(priority) {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	t := &entity.Task{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		ProjectID:      in.ProjectID,
		ClientID:       in.ClientID,
		Title:          in.Title,
		Description:    in.Description,
		Priority:       priority,
		AssignedTo:     in.AssignedTo,
		DueDate:        in.DueDate,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	// ApplyStatus desde vacío fija completed_at si la tarea nace completada.
	t.ApplyStatus(status, now)
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	uc.cache.Invalidate("tasks")
	return toTaskResponse(t), nil
}

// Update edita parcialmente una tarea del tenant. El status no se toca aquí:
// las transiciones van por UpdateStatus para preservar la regla de completed_at.
func (uc *TaskUseCase) Update(ctx context.Context, organizationID, id string, in dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	t, err := uc.getOwned(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if in.ProjectID != nil {
		t.ProjectID = *in.ProjectID
	}
	if in.ClientID != nil {
		t.ClientID = *in.ClientID
	}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, domain.ErrInvalidInput
		}
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Priority != nil {
		if !entity.IsValidTaskPriority(*in.Priority) {
			return nil, domain.ErrInvalidInput
		}
		t.Priority = *in.Priority
	}
	if in.AssignedTo != nil {
		t.AssignedTo = *in.AssignedTo
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}
	t.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	uc.cache.Invalidate("tasks")
	return toTaskResponse(t), nil
}

// UpdateStatus aplica una transición de estado. Cualquier transición entre
// estados válidos se acepta; completed_at se estampa al entrar a completed
// y se limpia al salir.
func (uc *TaskUseCase) UpdateStatus(ctx context.Context, organizationID, id, status string) (*dto.TaskResponse, error) {
	if !entity.IsValidTaskStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	t, err := uc.getOwned(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	t.ApplyStatus(status, now)
	t.UpdatedAt = now
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	uc.cache.Invalidate("tasks")
	return toTaskResponse(t), nil
}

// Delete elimina una tarea del tenant (con sus subtareas).
func (uc *TaskUseCase) Delete(ctx context.Context, organizationID, id string) error {
	if _, err := uc.getOwned(ctx, organizationID, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.cache.Invalidate("tasks")
	return nil
}

// CreateSubtask da de alta una subtarea bajo una tarea del tenant.
func (uc *TaskUseCase) CreateSubtask(ctx context.Context, organizationID, taskID string, in dto.CreateSubtaskRequest) (*dto.SubtaskResponse, error) {
	if in.Title == "" {
		return nil, domain.ErrInvalidInput
	}
	parent, err := uc.getOwned(ctx, organizationID, taskID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	s := &entity.Subtask{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		ParentTaskID:   parent.ID,
		Title:          in.Title,
		Description:    in.Description,
		Status:         entity.TaskTodo,
		AssignedTo:     in.AssignedTo,
		DueDate:        in.DueDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.CreateSubtask(ctx, s); err != nil {
		return nil, err
	}
	uc.cache.Invalidate("tasks")
	return toSubtaskResponse(s), nil
}

// UpdateSubtask edita parcialmente una subtarea del tenant.
func (uc *TaskUseCase) UpdateSubtask(ctx context.Context, organizationID, id string, in dto.UpdateSubtaskRequest) (*dto.SubtaskResponse, error) {
	s, err := uc.getOwnedSubtask(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, domain.ErrInvalidInput
		}
		s.Title = *in.Title
	}
	if in.Description != nil {
		s.Description = *in.Description
	}
	if in.AssignedTo != nil {
		s.AssignedTo = *in.AssignedTo
	}
	if in.DueDate != nil {
		s.DueDate = in.DueDate
	}
	s.UpdatedAt = uc.now()
	if err := uc.repo.UpdateSubtask(ctx, s); err != nil {
		return nil, err
	}
	uc.cache.Invalidate("tasks")
	return toSubtaskResponse(s), nil
}

// UpdateSubtaskStatus aplica a la subtarea la misma regla de transición y
// completed_at que la tarea padre.
func (uc *TaskUseCase) UpdateSubtaskStatus(ctx context.Context, organizationID, id, status string) (*dto.SubtaskResponse, error) {
	if !entity.IsValidTaskStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	s, err := uc.getOwnedSubtask(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	s.ApplyStatus(status, now)
	s.UpdatedAt = now
	if err := uc.repo.UpdateSubtask(ctx, s); err != nil {
		return nil, err
	}
	uc.cache.Invalidate("tasks")
	return toSubtaskResponse(s), nil
}

// DeleteSubtask elimina una subtarea del tenant.
func (uc *TaskUseCase) DeleteSubtask(ctx context.Context, organizationID, id string) error {
	if _, err := uc.getOwnedSubtask(ctx, organizationID, id); err != nil {
		return err
	}
	if err := uc.repo.DeleteSubtask(ctx, id); err != nil {
		return err
	}
	uc.cache.Invalidate("tasks")
	return nil
}

func (uc *TaskUseCase) getOwned(ctx context.Context, organizationID, id string) (*entity.Task, error) {
	if err := requireTenant(organizationID); err != nil {
		return nil, err
	}
	t, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil || t.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (uc *TaskUseCase) getOwnedSubtask(ctx context.Context, organizationID, id string) (*entity.Subtask, error) {
	if err := requireTenant(organizationID); err != nil {
		return nil, err
	}
	s, err := uc.repo.GetSubtaskByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil || s.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func toTaskResponse(t *entity.Task) *dto.TaskResponse {
	resp := &dto.TaskResponse{
		ID:             t.ID,
		OrganizationID: t.OrganizationID,
		ProjectID:      t.ProjectID,
		ClientID:       t.ClientID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         t.Status,
		Priority:       t.Priority,
		AssignedTo:     t.AssignedTo,
		DueDate:        t.DueDate,
		CompletedAt:    t.CompletedAt,
		CreatedBy:      t.CreatedBy,
		Project:        toProjectRefResponse(t.Project),
		Client:         toClientRefResponse(t.Client),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	for _, s := range t.Subtasks {
		resp.Subtasks = append(resp.Subtasks, *toSubtaskResponse(s))
	}
	return resp
}

func toSubtaskResponse(s *entity.Subtask) *dto.SubtaskResponse {
	return &dto.SubtaskResponse{
		ID:           s.ID,
		ParentTaskID: s.ParentTaskID,
		Title:        s.Title,
		Description:  s.Description,
		Status:       s.Status,
		AssignedTo:   s.AssignedTo,
		DueDate:      s.DueDate,
		CompletedAt:  s.CompletedAt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
