package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/crm-pro/internal/application/crm"
	"github.com/tu-usuario/crm-pro/internal/application/dto"
)

// ProposalHandler maneja las peticiones HTTP de propuestas.
type ProposalHandler struct {
	uc *crm.ProposalUseCase
}

// NewProposalHandler construye el handler.
func NewProposalHandler(uc *crm.ProposalUseCase) *ProposalHandler {
	return &ProposalHandler{uc: uc}
}

// List GET /api/proposals
func (h *ProposalHandler) List(c *fiber.Ctx) error {
	resp, err := h.uc.List(c.Context(), GetOrganizationID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// Create POST /api/proposals
func (h *ProposalHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProposalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Create(c.Context(), GetOrganizationID(c), GetUserID(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Update PUT /api/proposals/:id
func (h *ProposalHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProposalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Update(c.Context(), GetOrganizationID(c), c.Params("id"), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// Delete DELETE /api/proposals/:id
func (h *ProposalHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetOrganizationID(c), c.Params("id")); err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.StatusResponse{Status: "deleted"})
}
