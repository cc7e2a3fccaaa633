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

// LeadUseCase casos de uso de leads.
type LeadUseCase struct {
	repo  repository.LeadRepository
	cache *cache.Store
}

// NewLeadUseCase construye el caso de uso de leads.
func NewLeadUseCase(repo repository.LeadRepository, cacheStore *cache.Store) *LeadUseCase {
	return &LeadUseCase{repo: repo, cache: cacheStore}
}

// List devuelve los leads del tenant (cacheado).
func (uc *LeadUseCase) List(ctx context.Context, organizationID string) ([]*dto.LeadResponse, error) {
	key := cache.Key{Entity: "leads", TenantID: organizationID}
	return cache.GetTyped(ctx, uc.cache, key, func(ctx context.Context) ([]*dto.LeadResponse, error) {
		leads, err := uc.repo.ListByOrganization(ctx, organizationID)
		if err != nil {
			return nil, err
		}
		out := make([]*dto.LeadResponse, 0, len(leads))
		for _, l := range leads {
			out = append(out, toLeadResponse(l))
		}
		return out, nil
	})
}

// Create da de alta un lead estampando organization_id y created_by.
func (uc *LeadUseCase) Create(ctx context.Context, organizationID, userID string, in dto.CreateLeadRequest) (*dto.LeadResponse, error) {
	if err := requireTenant(organizationID); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = entity.LeadNew
	}
	if !entity.IsValidLeadStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	l := &entity.Lead{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		Name:           in.Name,
		Company:        in.Company,
		Email:          in.Email,
		Phone:          in.Phone,
		Source:         in.Source,
		Status:         status,
		Score:          in.Score,
		Notes:          in.Notes,
		AssignedTo:     in.AssignedTo,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	uc.cache.Invalidate("leads")
	return toLeadResponse(l), nil
}

// Update edita parcialmente un lead del tenant.
func (uc *LeadUseCase) Update(ctx context.Context, organizationID, id string, in dto.UpdateLeadRequest) (*dto.LeadResponse, error) {
	l, err := uc.getOwned(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		l.Name = *in.Name
	}
	if in.Company != nil {
		l.Company = *in.Company
	}
	if in.Email != nil {
		l.Email = *in.Email
	}
	if in.Phone != nil {
		l.Phone = *in.Phone
	}
	if in.Source != nil {
		l.Source = *in.Source
	}
	if in.Status != nil {
		if !entity.IsValidLeadStatus(*in.Status) {
			return nil, domain.ErrInvalidInput
		}
		l.Status = *in.Status
	}
	if in.Score != nil {
		l.Score = *in.Score
	}
	if in.Notes != nil {
		l.Notes = *in.Notes
	}
	if in.AssignedTo != nil {
		l.AssignedTo = *in.AssignedTo
	}
	l.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	uc.cache.Invalidate("leads")
	return toLeadResponse(l), nil
}

// Delete elimina un lead del tenant.
func (uc *LeadUseCase) Delete(ctx context.Context, organizationID, id string) error {
	if _, err := uc.getOwned(ctx, organizationID, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.cache.Invalidate("leads")
	return nil
}

func (uc *LeadUseCase) getOwned(ctx context.Context, organizationID, id string) (*entity.Lead, error) {
	if err := requireTenant(organizationID); err != nil {
		return nil, err
	}
	l, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil || l.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

func toLeadResponse(l *entity.Lead) *dto.LeadResponse {
	return &dto.LeadResponse{
		ID:             l.ID,
		OrganizationID: l.OrganizationID,
		Name:           l.Name,
		Company:        l.Company,
		Email:          l.Email,
		Phone:          l.Phone,
		Source:         l.Source,
		Status:         l.Status,
		Score:          l.Score,
		Notes:          l.Notes,
		AssignedTo:     l.AssignedTo,
		CreatedBy:      l.CreatedBy,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}
