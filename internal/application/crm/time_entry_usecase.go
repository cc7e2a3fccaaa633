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

// TimeEntryUseCase casos de uso de registros de tiempo.
type TimeEntryUseCase struct {
	repo  repository.TimeEntryRepository
	cache *cache.Store
}

// NewTimeEntryUseCase construye el caso de uso de registros de tiempo.
func NewTimeEntryUseCase(repo repository.TimeEntryRepository, cacheStore *cache.Store) *TimeEntryUseCase {
	return &TimeEntryUseCase{repo: repo, cache: cacheStore}
}

// List devuelve los registros del tenant con proyecto y tarea embebidos (cacheado).
func (uc *TimeEntryUseCase) List(ctx context.Context, organizationID string) ([]*dto.TimeEntryResponse, error) {
	key := cache.Key{Entity: "time_entries", TenantID: organizationID}
	return cache.GetTyped(ctx, uc.cache, key, func(ctx context.Context) ([]*dto.TimeEntryResponse, error) {
		entries, err := uc.repo.ListByOrganization(ctx, organizationID)
		if err != nil {
			return nil, err
		}
		out := make([]*dto.TimeEntryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, toTimeEntryResponse(e))
		}
		return out, nil
	})
}

// Create da de alta un registro de tiempo. A diferencia del resto de
// entidades, el campo estampado es user_id: el tiempo pertenece al usuario
// autenticado, no a un created_by genérico.
func (uc *TimeEntryUseCase) Create(ctx context.Context, organizationID, userID string, in dto.CreateTimeEntryRequest) (*dto.TimeEntryResponse, error) {
	if err := requireTenant(organizationID); err != nil {
		return nil, err
	}
	if in.StartTime.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	billable := true
	if in.Billable != nil {
		billable = *in.Billable
	}
	now := time.Now()
	e := &entity.TimeEntry{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		UserID:         userID,
		ProjectID:      in.ProjectID,
		TaskID:         in.TaskID,
		Description:    in.Description,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		Billable:       billable,
		HourlyRate:     in.HourlyRate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	e.ComputeDuration()
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	uc.cache.Invalidate("time_entries")
	return toTimeEntryResponse(e), nil
}

// Update edita parcialmente un registro del tenant y recalcula la duración.
func (uc *TimeEntryUseCase) Update(ctx context.Context, organizationID, id string, in dto.UpdateTimeEntryRequest) (*dto.TimeEntryResponse, error) {
	e, err := uc.getOwned(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if in.ProjectID != nil {
		e.ProjectID = *in.ProjectID
	}
	if in.TaskID != nil {
		e.TaskID = *in.TaskID
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.StartTime != nil {
		e.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		e.EndTime = in.EndTime
	}
	if in.Billable != nil {
		e.Billable = *in.Billable
	}
	if in.HourlyRate != nil {
		e.HourlyRate = *in.HourlyRate
	}
	e.ComputeDuration()
	e.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	uc.cache.Invalidate("time_entries")
	return toTimeEntryResponse(e), nil
}

// Delete elimina un registro del tenant.
func (uc *TimeEntryUseCase) Delete(ctx context.Context, organizationID, id string) error {
	if _, err := uc.getOwned(ctx, organizationID, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.cache.Invalidate("time_entries")
	return nil
}

func (uc *TimeEntryUseCase) getOwned(ctx context.Context, organizationID, id string) (*entity.TimeEntry, error) {
	if err := requireTenant(organizationID); err != nil {
		return nil, err
	}
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil || e.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func toTimeEntryResponse(e *entity.TimeEntry) *dto.TimeEntryResponse {
	resp := &dto.TimeEntryResponse{
		ID:              e.ID,
		OrganizationID:  e.OrganizationID,
		UserID:          e.UserID,
		ProjectID:       e.ProjectID,
		TaskID:          e.TaskID,
		Description:     e.Description,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		DurationMinutes: e.DurationMinutes,
		Billable:        e.Billable,
		HourlyRate:      e.HourlyRate,
		Project:         toProjectRefResponse(e.Project),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
	if e.Task != nil {
		resp.Task = &dto.TaskRefResponse{ID: e.Task.ID, Title: e.Task.Title}
	}
	return resp
}
