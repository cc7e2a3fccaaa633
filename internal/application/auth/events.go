package auth

// Tipos de evento de sesión.
const (
	EventSignedIn  = "signed_in"
	EventSignedOut = "signed_out"
)

// Event notificación de cambio en el ciclo de vida de una sesión. Los
// suscriptores se invocan de forma síncrona en el mismo hilo que produjo
// el cambio, después de que el estado quedó consistente.
type Event struct {
	Type           string
	SessionID      string
	UserID         string
	OrganizationID string
}
