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

// ProposalUseCase casos de uso de propuestas comerciales.
type ProposalUseCase struct {
	repo  repository.ProposalRepository
	cache *cache.Store
}

// NewProposalUseCase construye el caso de uso de propuestas.
func NewProposalUseCase(repo repository.ProposalRepository, cacheStore *cache.Store) *ProposalUseCase {
	return &ProposalUseCase{repo: repo, cache: cacheStore}
}

// List devuelve las propuestas del tenant con cliente y lead embebidos (cacheado).
func (uc *ProposalUseCase) List(ctx context.Context, organizationID string) ([]*dto.ProposalResponse, error) {
	key := cache.Key{Entity: "proposals", TenantID: organizationID}
	return cache.GetTyped(ctx, uc.cache, key, func(ctx context.Context) ([]*dto.ProposalResponse, error) {
		proposals, err := uc.repo.ListByOrganization(ctx, organizationID)
		if err != nil {
			return nil, err
		}
		out := make([]*dto.ProposalResponse, 0, len(proposals))
		for _, p := range proposals {
			out = append(out, toProposalResponse(p))
		}
		return out, nil
	})
}

// Create da de alta una propuesta dirigida a un cliente o a un lead.
func (uc *ProposalUseCase) Create(ctx context.Context, organizationID, userID string, in dto.CreateProposalRequest) (*dto.ProposalResponse, error) {
	if err := requireTenant(organizationID); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = entity.ProposalDraft
	}
	if !entity.IsValidProposalStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	p := &entity.Proposal{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		ClientID:       in.ClientID,
		LeadID:         in.LeadID,
		Title:          in.Title,
		Content:        in.Content,
		Status:         status,
		Amount:         in.Amount,
		ValidUntil:     in.ValidUntil,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.cache.Invalidate("proposals")
	return toProposalResponse(p), nil
}

// Update edita parcialmente una propuesta del tenant.
func (uc *ProposalUseCase) Update(ctx context.Context, organizationID, id string, in dto.UpdateProposalRequest) (*dto.ProposalResponse, error) {
	p, err := uc.getOwned(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if in.ClientID != nil {
		p.ClientID = *in.ClientID
	}
	if in.LeadID != nil {
		p.LeadID = *in.LeadID
	}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, domain.ErrInvalidInput
		}
		p.Title = *in.Title
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if in.Status != nil {
		if !entity.IsValidProposalStatus(*in.Status) {
			return nil, domain.ErrInvalidInput
		}
		p.Status = *in.Status
	}
	if in.Amount != nil {
		p.Amount = *in.Amount
	}
	if in.ValidUntil != nil {
		p.ValidUntil = in.ValidUntil
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.cache.Invalidate("proposals")
	return toProposalResponse(p), nil
}

// Delete elimina una propuesta del tenant.
func (uc *ProposalUseCase) Delete(ctx context.Context, organizationID, id string) error {
	if _, err := uc.getOwned(ctx, organizationID, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.cache.Invalidate("proposals")
	return nil
}

func (uc *ProposalUseCase) getOwned(ctx context.Context, organizationID, id string) (*entity.Proposal, error) {
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

func toProposalResponse(p *entity.Proposal) *dto.ProposalResponse {
	resp := &dto.ProposalResponse{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		ClientID:       p.ClientID,
		LeadID:         p.LeadID,
		Title:          p.Title,
		Content:        p.Content,
		Status:         p.Status,
		Amount:         p.Amount,
		ValidUntil:     p.ValidUntil,
		CreatedBy:      p.CreatedBy,
		Client:         toClientRefResponse(p.Client),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.Lead != nil {
		resp.Lead = &dto.LeadRefResponse{ID: p.Lead.ID, Name: p.Lead.Name, Company: p.Lead.Company}
	}
	return resp
}
