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

// ProjectUseCase casos de uso de proyectos.
type ProjectUseCase struct {
	repo  repository.ProjectRepository
	cache *cache.Store
}

// NewProjectUseCase construye el caso de uso de proyectos.
func NewProjectUseCase(repo repository.ProjectRepository, cacheStore *cache.Store) *ProjectUseCase {
	return &ProjectUseCase{repo: repo, cache: cacheStore}
}

// List devuelve los proyectos del tenant con el cliente embebido (cacheado).
func (uc *ProjectUseCase) List(ctx context.Context, organizationID string) ([]*dto.ProjectResponse, error) {
	key := cache.Key{Entity: "projects", TenantID: organizationID}
	return cache.GetTyped(ctx, uc.cache, key, func(ctx context.Context) ([]*dto.ProjectResponse, error) {
		projects, err := uc.repo.ListByOrganization(ctx, organizationID)
		if err != nil {
			return nil, err
		}
		out := make([]*dto.ProjectResponse, 0, len(projects))
		for _, p := range projects {
			out = append(out, toProjectResponse(p))
		}
		return out, nil
	})
}

// Get devuelve un proyecto del tenant (cacheado por id).
func (uc *ProjectUseCase) Get(ctx context.Context, organizationID, id string) (*dto.ProjectResponse, error) {
	key := cache.Key{Entity: "projects", TenantID: organizationID, Params: cache.Params("id", id)}
	return cache.GetTyped(ctx, uc.cache, key, func(ctx context.Context) (*dto.ProjectResponse, error) {
		p, err := uc.getOwned(ctx, organizationID, id)
		if err != nil {
			return nil, err
		}
		return toProjectResponse(p), nil
	})
}

// Create da de alta un proyecto estampando organization_id y created_by.
func (uc *ProjectUseCase) Create(ctx context.Context, organizationID, userID string, in dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	if err := requireTenant(organizationID); err != nil {
		return nil, err
	}
	if in.Name == "" || in.ClientID == "" {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = entity.ProjectDraft
	}
	if !entity.IsValidProjectStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	p := &entity.Project{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		ClientID:       in.ClientID,
		Name:           in.Name,
		Description:    in.Description,
		Status:         status,
		Budget:         in.Budget,
		HourlyRate:     in.HourlyRate,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		AssignedTo:     in.AssignedTo,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.cache.Invalidate("projects")
	return toProjectResponse(p), nil
}

// Update edita parcialmente un proyecto del tenant.
func (uc *ProjectUseCase) Update(ctx context.Context, organizationID, id string, in dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	p, err := uc.getOwned(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if in.ClientID != nil {
		if *in.ClientID == "" {
			return nil, domain.ErrInvalidInput
		}
		p.ClientID = *in.ClientID
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Status != nil {
		if !entity.IsValidProjectStatus(*in.Status) {
			return nil, domain.ErrInvalidInput
		}
		p.Status = *in.Status
	}
	if in.Budget != nil {
		p.Budget = *in.Budget
	}
	if in.HourlyRate != nil {
		p.HourlyRate = *in.HourlyRate
	}
	if in.StartDate != nil {
		p.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		p.EndDate = in.EndDate
	}
	if in.AssignedTo != nil {
		p.AssignedTo = in.AssignedTo
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.cache.Invalidate("projects")
	return toProjectResponse(p), nil
}

// Delete elimina un proyecto del tenant.
func (uc *ProjectUseCase) Delete(ctx context.Context, organizationID, id string) error {
	if _, err := uc.getOwned(ctx, organizationID, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.cache.Invalidate("projects")
	return nil
}

func (uc *ProjectUseCase) getOwned(ctx context.Context, organizationID, id string) (*entity.Project, error) {
	if err := requireTenant(organizationID); err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func toProjectResponse(p *entity.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		ClientID:       p.ClientID,
		Name:           p.Name,
		Description:    p.Description,
		Status:         p.Status,
		Budget:         p.Budget,
		HourlyRate:     p.HourlyRate,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		AssignedTo:     p.AssignedTo,
		CreatedBy:      p.CreatedBy,
		Client:         toClientRefResponse(p.Client),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toProjectRefResponse(ref *entity.ProjectRef) *dto.ProjectRefResponse {
	if ref == nil {
		return nil
	}
	return &dto.ProjectRefResponse{ID: ref.ID, Name: ref.Name}
}
