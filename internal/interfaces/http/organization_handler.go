package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/crm-pro/internal/application/account"
	"github.com/tu-usuario/crm-pro/internal/application/dto"
)

// OrganizationHandler maneja las peticiones HTTP de organizaciones.
type OrganizationHandler struct {
	uc *account.UseCase
}

// NewOrganizationHandler construye el handler.
func NewOrganizationHandler(uc *account.UseCase) *OrganizationHandler {
	return &OrganizationHandler{uc: uc}
}

// Create POST /api/organizations: alta de tenant, el creador queda como admin.
func (h *OrganizationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrganizationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.CreateOrganization(c.Context(), GetUserID(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Get GET /api/organization: el tenant del usuario autenticado.
func (h *OrganizationHandler) Get(c *fiber.Ctx) error {
	resp, err := h.uc.GetOrganization(c.Context(), GetOrganizationID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// Update PUT /api/organization (admin)
func (h *OrganizationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrganizationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.UpdateOrganization(c.Context(), GetOrganizationID(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// UpdateStatus PUT /api/organizations/:id/status (super_admin): puede operar
// sobre cualquier tenant, no solo el propio.
func (h *OrganizationHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateOrganizationStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.UpdateOrganizationStatus(c.Context(), c.Params("id"), in.Status); err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.StatusResponse{Status: "updated"})
}
