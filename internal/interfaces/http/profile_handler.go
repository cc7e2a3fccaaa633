package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/crm-pro/internal/application/account"
	"github.com/tu-usuario/crm-pro/internal/application/dto"
)

// ProfileHandler maneja las peticiones HTTP de perfil y miembros.
type ProfileHandler struct {
	uc *account.UseCase
}

// NewProfileHandler construye el handler.
func NewProfileHandler(uc *account.UseCase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// Me GET /api/me
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	resp, err := h.uc.Me(c.Context(), GetUserID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// UpdateMe PUT /api/me
func (h *ProfileHandler) UpdateMe(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.UpdateProfile(c.Context(), GetUserID(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// ListMembers GET /api/members
func (h *ProfileHandler) ListMembers(c *fiber.Ctx) error {
	resp, err := h.uc.ListMembers(c.Context(), GetOrganizationID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// UpdateMemberRole PUT /api/members/:id/role (admin)
func (h *ProfileHandler) UpdateMemberRole(c *fiber.Ctx) error {
	var in dto.UpdateRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.UpdateMemberRole(c.Context(), GetOrganizationID(c), GetRole(c), c.Params("id"), in.Role)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.StatusResponse{Status: "updated"})
}
