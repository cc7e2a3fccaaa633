package repository

import (
	"context"
	"time"
)

// SessionRecord datos persistidos por sesión activa. El registro es la fuente
// de verdad del ciclo de vida: un JWT cuyo session_id no tenga registro se
// trata como sesión expirada aunque la firma siga siendo válida.
type SessionRecord struct {
	UserID         string
	OrganizationID string
	Role           string
	CreatedAt      time.Time
}

// SessionRepository define el puerto de persistencia de sesiones.
// Lookup devuelve domain.ErrSessionExpired si el registro no existe o venció.
type SessionRepository interface {
	Save(ctx context.Context, sessionID string, rec SessionRecord, expiresAt time.Time) error
	Lookup(ctx context.Context, sessionID string) (*SessionRecord, error)
	// Revoke elimina el registro. Revocar una sesión inexistente no es error.
	Revoke(ctx context.Context, sessionID string) error
}
