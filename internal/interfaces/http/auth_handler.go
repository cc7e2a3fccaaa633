package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/crm-pro/internal/application/auth"
	"github.com/tu-usuario/crm-pro/internal/application/dto"
)

// AuthHandler maneja las peticiones HTTP del ciclo de sesión.
type AuthHandler struct {
	sessions *auth.SessionStore
}

// NewAuthHandler construye el handler.
func NewAuthHandler(sessions *auth.SessionStore) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// SignUp POST /api/auth/signup
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var in dto.SignUpRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.sessions.SignUp(c.Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// SignIn POST /api/auth/signin
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var in dto.SignInRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.sessions.SignIn(c.Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// SignOut POST /api/auth/signout (protegido)
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	if err := h.sessions.SignOut(c.Context(), GetSessionID(c)); err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.StatusResponse{Status: "signed_out"})
}

// Session GET /api/auth/session: recupera una sesión persistida a partir del
// token, sin abrir una sesión nueva.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
	}
	resp, err := h.sessions.Recover(c.Context(), strings.TrimSpace(parts[1]))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}
