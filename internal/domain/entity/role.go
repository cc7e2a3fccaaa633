package entity

// Roles válidos para Profile (enum user_role).
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleMember     = "member"
)

// RoleFlags deriva los flags de capacidad a partir del rol. Función pura y total:
// un rol desconocido o vacío se trata como member (mínimo privilegio), nunca como
// admin. Estos flags son consultivos para la capa de presentación; la autorización
// real ocurre en los middlewares y en el filtrado por organization_id de cada query.
func RoleFlags(role string) (isAdmin, isSuperAdmin bool) {
	isSuperAdmin = role == RoleSuperAdmin
	isAdmin = role == RoleAdmin || role == RoleSuperAdmin
	return isAdmin, isSuperAdmin
}

// IsValidRole valida el enum user_role.
func IsValidRole(r string) bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleManager, RoleMember:
		return true
	}
	return false
}

// NormalizeRole devuelve member para roles vacíos o desconocidos.
func NormalizeRole(r string) string {
	if IsValidRole(r) {
		return r
	}
	return RoleMember
}
