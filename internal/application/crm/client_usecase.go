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

// ClientUseCase casos de uso de clientes.
type ClientUseCase struct {
	repo  repository.ClientRepository
	cache *cache.Store
}

// NewClientUseCase construye el caso de uso de clientes.
func NewClientUseCase(repo repository.ClientRepository, cacheStore *cache.Store) *ClientUseCase {
	return &ClientUseCase{repo: repo, cache: cacheStore}
}

// List devuelve los clientes del tenant (cacheado).
func (uc *ClientUseCase) List(ctx context.Context, organizationID string) ([]*dto.ClientResponse, error) {
	key := cache.Key{Entity: "clients", TenantID: organizationID}
	return cache.GetTyped(ctx, uc.cache, key, func(ctx context.Context) ([]*dto.ClientResponse, error) {
		clients, err := uc.repo.ListByOrganization(ctx, organizationID)
		if err != nil {
			return nil, err
		}
		out := make([]*dto.ClientResponse, 0, len(clients))
		for _, c := range clients {
			out = append(out, toClientResponse(c))
		}
		return out, nil
	})
}

// Get devuelve un cliente del tenant (cacheado por id).
func (uc *ClientUseCase) Get(ctx context.Context, organizationID, id string) (*dto.ClientResponse, error) {
	key := cache.Key{Entity: "clients", TenantID: organizationID, Params: cache.Params("id", id)}
	return cache.GetTyped(ctx, uc.cache, key, func(ctx context.Context) (*dto.ClientResponse, error) {
		c, err := uc.getOwned(ctx, organizationID, id)
		if err != nil {
			return nil, err
		}
		return toClientResponse(c), nil
	})
}

// Create da de alta un cliente estampando organization_id y created_by.
func (uc *ClientUseCase) Create(ctx context.Context, organizationID, userID string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if err := requireTenant(organizationID); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	c := &entity.Client{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		Name:           in.Name,
		Company:        in.Company,
		Email:          in.Email,
		Phone:          in.Phone,
		Address:        in.Address,
		Notes:          in.Notes,
		Tags:           in.Tags,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.cache.Invalidate("clients")
	return toClientResponse(c), nil
}

// Update edita parcialmente un cliente del tenant.
func (uc *ClientUseCase) Update(ctx context.Context, organizationID, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	c, err := uc.getOwned(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		c.Name = *in.Name
	}
	if in.Company != nil {
		c.Company = *in.Company
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.Notes != nil {
		c.Notes = *in.Notes
	}
	if in.Tags != nil {
		c.Tags = in.Tags
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	uc.cache.Invalidate("clients")
	return toClientResponse(c), nil
}

// Delete elimina un cliente del tenant.
func (uc *ClientUseCase) Delete(ctx context.Context, organizationID, id string) error {
	if _, err := uc.getOwned(ctx, organizationID, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.cache.Invalidate("clients")
	return nil
}

// getOwned carga el cliente verificando pertenencia al tenant. Un cliente de
// otra organización se reporta como inexistente para no filtrar su existencia.
func (uc *ClientUseCase) getOwned(ctx context.Context, organizationID, id string) (*entity.Client, error) {
	if err := requireTenant(organizationID); err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:             c.ID,
		OrganizationID: c.OrganizationID,
		Name:           c.Name,
		Company:        c.Company,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
		Notes:          c.Notes,
		Tags:           c.Tags,
		CreatedBy:      c.CreatedBy,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func toClientRefResponse(ref *entity.ClientRef) *dto.ClientRefResponse {
	if ref == nil {
		return nil
	}
	return &dto.ClientRefResponse{ID: ref.ID, Name: ref.Name, Company: ref.Company}
}
