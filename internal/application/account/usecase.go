// Package account implementa la gestión de perfiles y organizaciones:
// alta de tenant, edición, cambio de estado, miembros y roles.
package account

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/crm-pro/internal/application/auth"
	"github.com/tu-usuario/crm-pro/internal/application/dto"
	"github.com/tu-usuario/crm-pro/internal/cache"
	"github.com/tu-usuario/crm-pro/internal/domain"
	"github.com/tu-usuario/crm-pro/internal/domain/entity"
	"github.com/tu-usuario/crm-pro/internal/domain/repository"
	"github.com/tu-usuario/crm-pro/pkg/logger"
	"github.com/tu-usuario/crm-pro/pkg/slug"
)

// UseCase casos de uso de cuenta y organización.
type UseCase struct {
	profiles repository.ProfileRepository
	orgs     repository.OrganizationRepository
	cache    *cache.Store
	log      *logger.Logger
}

// NewUseCase construye el caso de uso de cuenta.
func NewUseCase(profiles repository.ProfileRepository, orgs repository.OrganizationRepository, cacheStore *cache.Store, log *logger.Logger) *UseCase {
	return &UseCase{profiles: profiles, orgs: orgs, cache: cacheStore, log: log}
}

// Me devuelve el perfil del usuario autenticado.
func (uc *UseCase) Me(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	p, err := uc.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrUserNotFound
	}
	return auth.ToProfileResponse(p), nil
}

// UpdateProfile edita los campos propios del usuario (nunca rol ni organización).
func (uc *UseCase) UpdateProfile(ctx context.Context, userID string, in dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	p, err := uc.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.FirstName != nil {
		p.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		p.LastName = *in.LastName
	}
	if in.AvatarURL != nil {
		p.AvatarURL = *in.AvatarURL
	}
	if in.Settings != nil {
		p.Settings = in.Settings
	}
	p.UpdatedAt = time.Now()
	if err := uc.profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.cache.Invalidate("profiles")
	return auth.ToProfileResponse(p), nil
}

// ListMembers lista los perfiles del tenant (cacheado por organización).
func (uc *UseCase) ListMembers(ctx context.Context, organizationID string) ([]*dto.ProfileResponse, error) {
	key := cache.Key{Entity: "profiles", TenantID: organizationID}
	return cache.GetTyped(ctx, uc.cache, key, func(ctx context.Context) ([]*dto.ProfileResponse, error) {
		members, err := uc.profiles.ListByOrganization(ctx, organizationID)
		if err != nil {
			return nil, err
		}
		out := make([]*dto.ProfileResponse, 0, len(members))
		for _, m := range members {
			out = append(out, auth.ToProfileResponse(m))
		}
		return out, nil
	})
}

// UpdateMemberRole cambia el rol de un miembro del tenant. Solo un super_admin
// puede otorgar super_admin; el miembro debe pertenecer a la organización del actor.
func (uc *UseCase) UpdateMemberRole(ctx context.Context, organizationID, actorRole, memberID, role string) error {
	if !entity.IsValidRole(role) {
		return domain.ErrInvalidInput
	}
	if role == entity.RoleSuperAdmin {
		if _, isSuper := entity.RoleFlags(actorRole); !isSuper {
			return domain.ErrForbidden
		}
	}
	member, err := uc.profiles.GetByID(ctx, memberID)
	if err != nil {
		return err
	}
	if member == nil || member.OrganizationID != organizationID {
		return domain.ErrNotFound
	}
	if err := uc.profiles.UpdateRole(ctx, memberID, role); err != nil {
		return err
	}
	uc.cache.Invalidate("profiles")
	return nil
}

// CreateOrganization da de alta un tenant y vincula al creador como admin.
// ErrConflict si el usuario ya pertenece a una organización; ErrDuplicate si
// el slug derivado del nombre ya existe.
func (uc *UseCase) CreateOrganization(ctx context.Context, userID string, in dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrUserNotFound
	}
	if p.HasTenant() {
		return nil, domain.ErrConflict
	}

	plan := in.SubscriptionPlan
	if plan == "" {
		plan = entity.PlanFree
	}
	if !entity.IsValidPlan(plan) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	org := &entity.Organization{
		ID:               uuid.New().String(),
		Name:             in.Name,
		Slug:             slug.Make(in.Name),
		Status:           entity.TenantTrial,
		SubscriptionPlan: plan,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.orgs.Create(ctx, org); err != nil {
		return nil, err
	}
	if err := uc.profiles.AssignOrganization(ctx, userID, org.ID); err != nil {
		return nil, err
	}
	if err := uc.profiles.UpdateRole(ctx, userID, entity.RoleAdmin); err != nil {
		return nil, err
	}
	uc.cache.Invalidate("profiles")
	uc.log.Info().
		Str("organization_id", org.ID).
		Str("slug", org.Slug).
		Str("user_id", userID).
		Msg("organización creada")
	return auth.ToOrganizationResponse(org), nil
}

// GetOrganization devuelve el tenant del usuario (cacheado).
func (uc *UseCase) GetOrganization(ctx context.Context, organizationID string) (*dto.OrganizationResponse, error) {
	key := cache.Key{Entity: "organizations", TenantID: organizationID}
	return cache.GetTyped(ctx, uc.cache, key, func(ctx context.Context) (*dto.OrganizationResponse, error) {
		org, err := uc.orgs.GetByID(ctx, organizationID)
		if err != nil {
			return nil, err
		}
		if org == nil {
			return nil, domain.ErrNotFound
		}
		return auth.ToOrganizationResponse(org), nil
	})
}

// UpdateOrganization edita nombre, plan o settings del tenant (solo admin).
// El slug no cambia al renombrar: es el identificador estable del tenant.
func (uc *UseCase) UpdateOrganization(ctx context.Context, organizationID string, in dto.UpdateOrganizationRequest) (*dto.OrganizationResponse, error) {
	org, err := uc.orgs.GetByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		org.Name = *in.Name
	}
	if in.SubscriptionPlan != nil {
		if !entity.IsValidPlan(*in.SubscriptionPlan) {
			return nil, domain.ErrInvalidInput
		}
		org.SubscriptionPlan = *in.SubscriptionPlan
	}
	if in.Settings != nil {
		org.Settings = in.Settings
	}
	org.UpdatedAt = time.Now()
	if err := uc.orgs.Update(ctx, org); err != nil {
		return nil, err
	}
	uc.cache.Invalidate("organizations")
	return auth.ToOrganizationResponse(org), nil
}

// UpdateOrganizationStatus cambia el estado del tenant (solo super_admin).
// Suspender o cancelar bloquea todas las rutas scoped del tenant.
func (uc *UseCase) UpdateOrganizationStatus(ctx context.Context, organizationID, status string) error {
	if !entity.IsValidTenantStatus(status) {
		return domain.ErrInvalidInput
	}
	org, err := uc.orgs.GetByID(ctx, organizationID)
	if err != nil {
		return err
	}
	if org == nil {
		return domain.ErrNotFound
	}
	if err := uc.orgs.UpdateStatus(ctx, organizationID, status); err != nil {
		return err
	}
	uc.cache.Invalidate("organizations")
	uc.log.Info().
		Str("organization_id", organizationID).
		Str("status", status).
		Msg("estado de tenant actualizado")
	return nil
}
