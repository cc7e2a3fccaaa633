package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/crm-pro/internal/application/dto"
	"github.com/tu-usuario/crm-pro/internal/domain/entity"
)

// tenantResolver es el contrato mínimo que necesita el middleware para
// consultar el tenant. Lo implementa *account.UseCase (lectura cacheada);
// el uso de interfaz evita el import circular.
type tenantResolver interface {
	GetOrganization(ctx context.Context, organizationID string) (*dto.OrganizationResponse, error)
}

// RequireActiveTenant devuelve un middleware Fiber que verifica que el usuario
// tenga organización resuelta y que ésta pueda operar. Debe usarse DESPUÉS de
// AuthMiddleware (necesita LocalOrganizationID).
//
// Comportamiento:
//   - 403 SETUP_REQUIRED → perfil sin organización asignada (fail-closed).
//   - 403 TENANT_SUSPENDED → organización suspendida o cancelada.
//   - 503 Service Unavailable → fallo de infraestructura al consultar el tenant.
func RequireActiveTenant(resolver tenantResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		organizationID := GetOrganizationID(c)
		if organizationID == "" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "SETUP_REQUIRED",
				Message: "el perfil no tiene organización asignada",
			})
		}

		org, err := resolver.GetOrganization(c.Context(), organizationID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "TENANT_CHECK_FAILED",
				Message: "no se pudo verificar la organización, intente más tarde",
			})
		}
		if !entity.TenantStatusOperable(org.Status) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "TENANT_SUSPENDED",
				Message: "la organización está suspendida o cancelada",
			})
		}
		return c.Next()
	}
}

// RequireAdmin exige rol admin o super_admin. Debe usarse DESPUÉS de AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isAdmin, _ := entity.RoleFlags(GetRole(c)); !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "se requiere rol de administrador",
			})
		}
		return c.Next()
	}
}

// RequireSuperAdmin exige rol super_admin. Debe usarse DESPUÉS de AuthMiddleware.
func RequireSuperAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, isSuper := entity.RoleFlags(GetRole(c)); !isSuper {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "se requiere rol de super administrador",
			})
		}
		return c.Next()
	}
}
