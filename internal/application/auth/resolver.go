package auth

import (
	"context"

	"github.com/tu-usuario/crm-pro/internal/domain"
	"github.com/tu-usuario/crm-pro/internal/domain/entity"
	"github.com/tu-usuario/crm-pro/internal/domain/repository"
	"github.com/tu-usuario/crm-pro/pkg/logger"
)

// Resolver resuelve el contexto de tenant de un usuario autenticado:
// perfil y, si el perfil tiene organización asignada, la organización.
type Resolver struct {
	profiles repository.ProfileRepository
	orgs     repository.OrganizationRepository
	log      *logger.Logger
}

// NewResolver construye el resolver de tenant.
func NewResolver(profiles repository.ProfileRepository, orgs repository.OrganizationRepository, log *logger.Logger) *Resolver {
	return &Resolver{profiles: profiles, orgs: orgs, log: log}
}

// Resolve obtiene perfil y organización del usuario.
//
//   - perfil irrecuperable (fallo transitorio o perfil ausente):
//     (nil, nil, ErrTenantUnresolved).
//   - perfil sin organización: (perfil, nil, nil), estado "setup required".
//   - fallo transitorio u organización colgante al resolver el tenant:
//     (perfil, nil, ErrTenantUnresolved).
//
// ErrTenantUnresolved nunca es fatal: el caller degrada la sesión en vez de
// tumbarla. El usuario queda autenticado pero sin datos scoped.
func (r *Resolver) Resolve(ctx context.Context, userID string) (*entity.Profile, *entity.Organization, error) {
	profile, err := r.profiles.GetByID(ctx, userID)
	if err != nil {
		r.log.Warn().Err(err).
			Str("user_id", userID).
			Msg("no se pudo resolver el perfil, degradando sesión")
		return nil, nil, domain.ErrTenantUnresolved
	}
	if profile == nil {
		r.log.Warn().
			Str("user_id", userID).
			Msg("perfil ausente para una sesión viva, degradando sesión")
		return nil, nil, domain.ErrTenantUnresolved
	}
	if !profile.HasTenant() {
		return profile, nil, nil
	}

	org, err := r.orgs.GetByID(ctx, profile.OrganizationID)
	if err != nil {
		r.log.Warn().Err(err).
			Str("user_id", userID).
			Str("organization_id", profile.OrganizationID).
			Msg("no se pudo resolver el tenant, degradando sesión")
		return profile, nil, domain.ErrTenantUnresolved
	}
	if org == nil {
		// El perfil apunta a una organización que ya no existe.
		r.log.Error().
			Str("user_id", userID).
			Str("organization_id", profile.OrganizationID).
			Msg("perfil con organización colgante")
		return profile, nil, domain.ErrTenantUnresolved
	}
	return profile, org, nil
}
