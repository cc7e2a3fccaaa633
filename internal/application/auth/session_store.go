package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/crm-pro/internal/application/dto"
	"github.com/tu-usuario/crm-pro/internal/cache"
	"github.com/tu-usuario/crm-pro/internal/domain"
	"github.com/tu-usuario/crm-pro/internal/domain/entity"
	"github.com/tu-usuario/crm-pro/internal/domain/repository"
	"github.com/tu-usuario/crm-pro/pkg/jwt"
	"github.com/tu-usuario/crm-pro/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// SessionStore casos de uso del ciclo de sesión: registro, sign-in, sign-out
// y recuperación de una sesión persistida. Mantiene la lista de suscriptores
// a eventos de sesión y garantiza el orden de limpieza en el sign-out:
// primero el registro de sesión, luego el perfil, luego la organización.
type SessionStore struct {
	profiles repository.ProfileRepository
	sessions repository.SessionRepository
	resolver *Resolver
	cache    *cache.Store
	jwtCfg   JWTConfig
	log      *logger.Logger

	mu        sync.Mutex
	listeners map[int]func(Event)
	nextSub   int
}

// NewSessionStore construye el caso de uso de sesiones.
func NewSessionStore(
	profiles repository.ProfileRepository,
	sessions repository.SessionRepository,
	resolver *Resolver,
	cacheStore *cache.Store,
	jwtCfg JWTConfig,
	log *logger.Logger,
) *SessionStore {
	return &SessionStore{
		profiles:  profiles,
		sessions:  sessions,
		resolver:  resolver,
		cache:     cacheStore,
		jwtCfg:    jwtCfg,
		log:       log,
		listeners: make(map[int]func(Event)),
	}
}

// Subscribe registra un listener de eventos de sesión y devuelve la función
// para darse de baja. Los listeners se invocan de forma síncrona.
func (s *SessionStore) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *SessionStore) notify(ev Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// SignUp registra un usuario nuevo. El perfil nace sin organización (estado
// "setup required") y con rol member; la sesión se abre inmediatamente.
// ErrEmailAlreadyExists si el email ya está registrado.
func (s *SessionStore) SignUp(ctx context.Context, in dto.SignUpRequest) (*dto.SessionResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := s.profiles.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	profile := &entity.Profile{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         entity.RoleMember,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	return s.openSession(ctx, profile, nil, false)
}

// SignIn verifica credenciales, resuelve el tenant y abre la sesión.
// Si la resolución del tenant falla de forma transitoria la sesión se abre
// degradada (sin organización) en lugar de rechazar el login.
func (s *SessionStore) SignIn(ctx context.Context, in dto.SignInRequest) (*dto.SessionResponse, error) {
	profile, err := s.profiles.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if profile.Status != "active" {
		return nil, domain.ErrForbidden
	}

	_, org, err := s.resolver.Resolve(ctx, profile.ID)
	degraded := false
	if err != nil {
		if !errors.Is(err, domain.ErrTenantUnresolved) {
			return nil, err
		}
		degraded = true
	}
	return s.openSession(ctx, profile, org, degraded)
}

// SignOut cierra la sesión. La limpieza es atómica y en orden fijo: primero
// se revoca el registro de sesión, luego se invalidan perfil y organización
// cacheados, luego el resto de la caché de lecturas. Cerrar una sesión ya
// expirada no es error (el sign-out es idempotente).
func (s *SessionStore) SignOut(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	rec, err := s.sessions.Lookup(ctx, sessionID)
	if err != nil && !errors.Is(err, domain.ErrSessionExpired) {
		s.mu.Unlock()
		return err
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		s.mu.Unlock()
		return err
	}
	s.cache.Invalidate("profiles")
	s.cache.Invalidate("organizations")
	s.cache.InvalidateAll()
	s.mu.Unlock()

	ev := Event{Type: EventSignedOut, SessionID: sessionID}
	if rec != nil {
		ev.UserID = rec.UserID
		ev.OrganizationID = rec.OrganizationID
	}
	s.notify(ev)
	s.log.Info().Str("session_id", sessionID).Msg("sesión cerrada")
	return nil
}

// Recover valida un token existente contra el registro de sesión y devuelve
// el contexto resuelto (recuperación de sesión persistida al arrancar el
// cliente). No abre una sesión nueva ni emite eventos.
func (s *SessionStore) Recover(ctx context.Context, token string) (*dto.SessionResponse, error) {
	claims, err := jwt.Parse(s.jwtCfg.Secret, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	rec, err := s.sessions.Lookup(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}

	profile, org, err := s.resolver.Resolve(ctx, rec.UserID)
	degraded := false
	if err != nil {
		if !errors.Is(err, domain.ErrTenantUnresolved) {
			return nil, err
		}
		degraded = true
	}
	if profile == nil {
		// Perfil irresoluble con sesión viva: se responde con la identidad
		// mínima del registro de sesión en lugar de rechazar la recuperación.
		profile = &entity.Profile{
			ID:             rec.UserID,
			OrganizationID: rec.OrganizationID,
			Role:           rec.Role,
		}
	}
	resp := buildSessionResponse(token, claims.ExpiresAt.Time, profile, org, degraded)
	return resp, nil
}

func (s *SessionStore) openSession(ctx context.Context, profile *entity.Profile, org *entity.Organization, degraded bool) (*dto.SessionResponse, error) {
	sessionID := uuid.New().String()
	now := time.Now()
	expiresAt := now.Add(time.Duration(s.jwtCfg.ExpMinutes) * time.Minute)

	orgID := profile.OrganizationID
	rec := repository.SessionRecord{
		UserID:         profile.ID,
		OrganizationID: orgID,
		Role:           entity.NormalizeRole(profile.Role),
		CreatedAt:      now,
	}
	if err := s.sessions.Save(ctx, sessionID, rec, expiresAt); err != nil {
		return nil, err
	}

	token, err := jwt.Generate(s.jwtCfg.Secret, profile.ID, orgID, rec.Role, sessionID, s.jwtCfg.Issuer, s.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}

	s.notify(Event{
		Type:           EventSignedIn,
		SessionID:      sessionID,
		UserID:         profile.ID,
		OrganizationID: orgID,
	})
	s.log.Info().
		Str("user_id", profile.ID).
		Str("organization_id", orgID).
		Bool("degraded", degraded).
		Msg("sesión abierta")

	return buildSessionResponse(token, expiresAt, profile, org, degraded), nil
}

func buildSessionResponse(token string, expiresAt time.Time, profile *entity.Profile, org *entity.Organization, degraded bool) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		Token:         token,
		ExpiresAt:     expiresAt,
		User:          *ToProfileResponse(profile),
		Organization:  ToOrganizationResponse(org),
		SetupRequired: !profile.HasTenant(),
		Degraded:      degraded,
	}
	return resp
}

// ToProfileResponse convierte el perfil de dominio en su respuesta API.
func ToProfileResponse(p *entity.Profile) *dto.ProfileResponse {
	if p == nil {
		return nil
	}
	return &dto.ProfileResponse{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		Email:          p.Email,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		FullName:       p.FullName(),
		Role:           entity.NormalizeRole(p.Role),
		AvatarURL:      p.AvatarURL,
		Status:         p.Status,
		Settings:       p.Settings,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToOrganizationResponse convierte la organización de dominio en su respuesta API.
func ToOrganizationResponse(o *entity.Organization) *dto.OrganizationResponse {
	if o == nil {
		return nil
	}
	return &dto.OrganizationResponse{
		ID:               o.ID,
		Name:             o.Name,
		Slug:             o.Slug,
		Status:           o.Status,
		SubscriptionPlan: o.SubscriptionPlan,
		Settings:         o.Settings,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}
