package dto

import "time"

// SignUpRequest registro de un nuevo usuario. El perfil nace sin organización
// (estado "setup required") hasta crear o unirse a una.
type SignUpRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// SignInRequest credenciales de inicio de sesión.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileResponse perfil expuesto por la API (nunca incluye el hash).
type ProfileResponse struct {
	ID             string         `json:"id"`
	OrganizationID string         `json:"organization_id,omitempty"`
	Email          string         `json:"email"`
	FirstName      string         `json:"first_name,omitempty"`
	LastName       string         `json:"last_name,omitempty"`
	FullName       string         `json:"full_name"`
	Role           string         `json:"role"`
	AvatarURL      string         `json:"avatar_url,omitempty"`
	Status         string         `json:"status"`
	Settings       map[string]any `json:"settings,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// OrganizationResponse tenant expuesto por la API.
type OrganizationResponse struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Slug             string         `json:"slug"`
	Status           string         `json:"status"`
	SubscriptionPlan string         `json:"subscription_plan"`
	Settings         map[string]any `json:"settings,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// SessionResponse resultado de sign-in/sign-up: token, sesión y contexto resuelto.
// Organization es nil cuando el perfil aún no tiene tenant (SetupRequired true)
// o cuando la resolución del tenant falló de forma transitoria (Degraded true).
type SessionResponse struct {
	Token         string                `json:"token"`
	ExpiresAt     time.Time             `json:"expires_at"`
	User          ProfileResponse       `json:"user"`
	Organization  *OrganizationResponse `json:"organization,omitempty"`
	SetupRequired bool                  `json:"setup_required"`
	Degraded      bool                  `json:"degraded,omitempty"`
}

// UpdateProfileRequest campos editables por el propio usuario. Los punteros
// distinguen "no enviado" de "poner en vacío".
type UpdateProfileRequest struct {
	FirstName *string        `json:"first_name"`
	LastName  *string        `json:"last_name"`
	AvatarURL *string        `json:"avatar_url"`
	Settings  map[string]any `json:"settings"`
}

// UpdateRoleRequest cambio de rol por un administrador.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// CreateOrganizationRequest alta de tenant. Quien lo crea queda como admin.
type CreateOrganizationRequest struct {
	Name             string `json:"name" validate:"required"`
	SubscriptionPlan string `json:"subscription_plan"`
}

// UpdateOrganizationRequest edición de tenant (solo admin).
type UpdateOrganizationRequest struct {
	Name             *string        `json:"name"`
	SubscriptionPlan *string        `json:"subscription_plan"`
	Settings         map[string]any `json:"settings"`
}

// UpdateOrganizationStatusRequest cambio de estado del tenant (solo super_admin).
type UpdateOrganizationStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
