package entity

import "time"

// Profile representa el usuario de la aplicación: enlaza una identidad
// autenticada con un tenant y un rol. OrganizationID vacío significa que el
// usuario aún no pertenece a ninguna organización (estado "setup required"):
// puede autenticarse pero no accede a datos scoped.
type Profile struct {
	ID             string // igual al id de la identidad de auth
	OrganizationID string // vacío = sin tenant asignado
	Email          string
	PasswordHash   string // bcrypt hash, nunca plano en dominio después de persistir
	FirstName      string
	LastName       string
	Role           string // ver role.go; vacío se trata como member
	AvatarURL      string
	Status         string // active, pending, inactive
	Settings       map[string]any
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName devuelve nombre y apellido concatenados (o el email si están vacíos).
func (p *Profile) FullName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	case p.LastName != "":
		return p.LastName
	}
	return p.Email
}

// HasTenant indica si el perfil tiene organización asignada.
func (p *Profile) HasTenant() bool {
	return p.OrganizationID != ""
}
