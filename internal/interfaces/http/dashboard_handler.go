package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/crm-pro/internal/application/crm"
)

// DashboardHandler maneja las peticiones HTTP del dashboard.
type DashboardHandler struct {
	uc *crm.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *crm.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Get GET /api/dashboard
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	resp, err := h.uc.Get(c.Context(), GetOrganizationID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}
