package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrSessionExpired     = errors.New("sesión expirada o revocada")

	// Errores de contexto de tenant. ErrNoTenant corta en seco cualquier lectura
	// o escritura scoped: sin organization_id no se emite ninguna consulta.
	ErrNoTenant         = errors.New("perfil sin organización asignada")
	ErrTenantUnresolved = errors.New("no se pudo resolver el perfil del usuario")
	ErrTenantSuspended  = errors.New("la organización está suspendida o cancelada")
)

// IsAuthError clasifica los errores de clase auth: la política de reintentos
// de la caché nunca reintenta estos, y las lecturas no conservan datos stale
// cuando el fallo es de esta clase.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrSessionExpired)
}
