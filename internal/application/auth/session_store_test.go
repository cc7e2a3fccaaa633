package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/crm-pro/internal/application/auth"
	"github.com/tu-usuario/crm-pro/internal/application/dto"
	"github.com/tu-usuario/crm-pro/internal/cache"
	"github.com/tu-usuario/crm-pro/internal/domain"
	"github.com/tu-usuario/crm-pro/internal/domain/entity"
	"github.com/tu-usuario/crm-pro/internal/domain/repository"
	"github.com/tu-usuario/crm-pro/pkg/jwt"
	"github.com/tu-usuario/crm-pro/pkg/logger"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "crm-pro-test"
	testOrgID  = "00000000-0000-0000-0000-0000000000aa"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProfiles struct {
	mu       sync.Mutex
	byID     map[string]*entity.Profile
	byEmail  map[string]*entity.Profile
	failWith error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{byID: map[string]*entity.Profile{}, byEmail: map[string]*entity.Profile{}}
}

func (f *fakeProfiles) add(p *entity.Profile) {
	f.byID[p.ID] = p
	f.byEmail[p.Email] = p
}

func (f *fakeProfiles) Create(ctx context.Context, p *entity.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.add(&cp)
	return nil
}

func (f *fakeProfiles) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	p, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) GetByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Profile, error) {
	return nil, nil
}

func (f *fakeProfiles) Update(ctx context.Context, p *entity.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.add(&cp)
	return nil
}

func (f *fakeProfiles) UpdateRole(ctx context.Context, id, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.byID[id]; ok {
		p.Role = role
	}
	return nil
}

func (f *fakeProfiles) AssignOrganization(ctx context.Context, id, organizationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.byID[id]; ok {
		p.OrganizationID = organizationID
	}
	return nil
}

type fakeOrgs struct {
	mu       sync.Mutex
	byID     map[string]*entity.Organization
	failWith error
}

func newFakeOrgs() *fakeOrgs {
	return &fakeOrgs{byID: map[string]*entity.Organization{}}
}

func (f *fakeOrgs) Create(ctx context.Context, o *entity.Organization) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *o
	f.byID[o.ID] = &cp
	return nil
}

func (f *fakeOrgs) GetByID(ctx context.Context, id string) (*entity.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	o, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrgs) GetBySlug(ctx context.Context, slug string) (*entity.Organization, error) {
	return nil, nil
}

func (f *fakeOrgs) Update(ctx context.Context, o *entity.Organization) error { return nil }

func (f *fakeOrgs) UpdateStatus(ctx context.Context, id, status string) error { return nil }

type fakeSessions struct {
	mu   sync.Mutex
	recs map[string]repository.SessionRecord
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{recs: map[string]repository.SessionRecord{}}
}

func (f *fakeSessions) Save(ctx context.Context, sessionID string, rec repository.SessionRecord, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs[sessionID] = rec
	return nil
}

func (f *fakeSessions) Lookup(ctx context.Context, sessionID string) (*repository.SessionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recs[sessionID]
	if !ok {
		return nil, domain.ErrSessionExpired
	}
	return &rec, nil
}

func (f *fakeSessions) Revoke(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.recs, sessionID)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store    *auth.SessionStore
	profiles *fakeProfiles
	orgs     *fakeOrgs
	sessions *fakeSessions
	cache    *cache.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	profiles := newFakeProfiles()
	orgs := newFakeOrgs()
	sessions := newFakeSessions()
	cacheStore := cache.New(cache.Options{}, log)
	resolver := auth.NewResolver(profiles, orgs, log)
	store := auth.NewSessionStore(profiles, sessions, resolver, cacheStore, auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     testIssuer,
	}, log)
	return &fixture{store: store, profiles: profiles, orgs: orgs, sessions: sessions, cache: cacheStore}
}

// seedUser da de alta un perfil activo con password "secreta123".
func (fx *fixture) seedUser(t *testing.T, id, email, orgID string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreta123"), bcrypt.MinCost)
	require.NoError(t, err)
	fx.profiles.add(&entity.Profile{
		ID:             id,
		OrganizationID: orgID,
		Email:          email,
		PasswordHash:   string(hash),
		FirstName:      "Ana",
		LastName:       "Ruiz",
		Role:           entity.RoleAdmin,
		Status:         "active",
	})
}

func (fx *fixture) seedOrg(id string) {
	fx.orgs.byID[id] = &entity.Organization{
		ID:     id,
		Name:   "ACME",
		Slug:   "acme",
		Status: entity.TenantActive,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// SignUp
// ──────────────────────────────────────────────────────────────────────────────

func TestSignUp_PerfilNaceSinOrganizacion(t *testing.T) {
	fx := newFixture(t)

	resp, err := fx.store.SignUp(context.Background(), dto.SignUpRequest{
		Email:     "nueva@acme.com",
		Password:  "secreta123",
		FirstName: "Nueva",
	})
	require.NoError(t, err)

	assert.True(t, resp.SetupRequired, "sin organización el estado es setup required")
	assert.Nil(t, resp.Organization)
	assert.Equal(t, entity.RoleMember, resp.User.Role, "el perfil nace como member")
	assert.NotEmpty(t, resp.Token)

	claims, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Empty(t, claims.OrganizationID)

	_, err = fx.sessions.Lookup(context.Background(), claims.SessionID)
	assert.NoError(t, err, "la sesión queda persistida")
}

func TestSignUp_EmailDuplicado(t *testing.T) {
	fx := newFixture(t)
	fx.seedUser(t, "u1", "ana@acme.com", "")

	_, err := fx.store.SignUp(context.Background(), dto.SignUpRequest{
		Email:    "ana@acme.com",
		Password: "secreta123",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// ──────────────────────────────────────────────────────────────────────────────
// SignIn
// ──────────────────────────────────────────────────────────────────────────────

func TestSignIn_ResuelveTenant(t *testing.T) {
	fx := newFixture(t)
	fx.seedOrg(testOrgID)
	fx.seedUser(t, "u1", "ana@acme.com", testOrgID)

	resp, err := fx.store.SignIn(context.Background(), dto.SignInRequest{
		Email:    "ana@acme.com",
		Password: "secreta123",
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Organization)
	assert.Equal(t, testOrgID, resp.Organization.ID)
	assert.False(t, resp.SetupRequired)
	assert.False(t, resp.Degraded)

	claims, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, testOrgID, claims.OrganizationID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
}

func TestSignIn_PasswordIncorrecta(t *testing.T) {
	fx := newFixture(t)
	fx.seedUser(t, "u1", "ana@acme.com", "")

	_, err := fx.store.SignIn(context.Background(), dto.SignInRequest{
		Email:    "ana@acme.com",
		Password: "otra-cosa",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSignIn_UsuarioInexistente(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.store.SignIn(context.Background(), dto.SignInRequest{
		Email:    "nadie@acme.com",
		Password: "secreta123",
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSignIn_PerfilInactivo(t *testing.T) {
	fx := newFixture(t)
	fx.seedUser(t, "u1", "ana@acme.com", "")
	fx.profiles.byID["u1"].Status = "inactive"
	fx.profiles.byEmail["ana@acme.com"].Status = "inactive"

	_, err := fx.store.SignIn(context.Background(), dto.SignInRequest{
		Email:    "ana@acme.com",
		Password: "secreta123",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// Fallo transitorio al resolver el tenant: la sesión se abre degradada en
// lugar de rechazar el login.
func TestSignIn_TenantIrresolubleDegradaLaSesion(t *testing.T) {
	fx := newFixture(t)
	fx.seedUser(t, "u1", "ana@acme.com", testOrgID)
	fx.orgs.failWith = assert.AnError

	resp, err := fx.store.SignIn(context.Background(), dto.SignInRequest{
		Email:    "ana@acme.com",
		Password: "secreta123",
	})
	require.NoError(t, err, "el fallo del tenant no tumba el login")

	assert.True(t, resp.Degraded)
	assert.Nil(t, resp.Organization)
	assert.NotEmpty(t, resp.Token)
}

// Un fallo transitorio al releer el perfil tampoco tumba el login: las
// credenciales ya están verificadas y el perfil del sign-in sigue disponible.
func TestSignIn_FalloDePerfilDegradaLaSesion(t *testing.T) {
	fx := newFixture(t)
	fx.seedOrg(testOrgID)
	fx.seedUser(t, "u1", "ana@acme.com", testOrgID)
	fx.profiles.failWith = assert.AnError

	resp, err := fx.store.SignIn(context.Background(), dto.SignInRequest{
		Email:    "ana@acme.com",
		Password: "secreta123",
	})
	require.NoError(t, err, "el fallo del perfil no tumba el login")

	assert.True(t, resp.Degraded)
	assert.Nil(t, resp.Organization)
	assert.Equal(t, "u1", resp.User.ID)
	assert.NotEmpty(t, resp.Token)
}

// ──────────────────────────────────────────────────────────────────────────────
// SignOut
// ──────────────────────────────────────────────────────────────────────────────

func TestSignOut_RevocaSesionYLimpiaCache(t *testing.T) {
	fx := newFixture(t)
	fx.seedOrg(testOrgID)
	fx.seedUser(t, "u1", "ana@acme.com", testOrgID)

	resp, err := fx.store.SignIn(context.Background(), dto.SignInRequest{
		Email:    "ana@acme.com",
		Password: "secreta123",
	})
	require.NoError(t, err)
	claims, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)

	// Poblamos la caché como lo haría una sesión activa.
	_, _ = fx.cache.Get(context.Background(), cache.Key{Entity: "clients", TenantID: testOrgID},
		func(ctx context.Context) (any, error) { return "datos", nil })
	require.Equal(t, 1, fx.cache.Len())

	require.NoError(t, fx.store.SignOut(context.Background(), claims.SessionID))

	_, err = fx.sessions.Lookup(context.Background(), claims.SessionID)
	assert.ErrorIs(t, err, domain.ErrSessionExpired, "la sesión queda revocada")
	assert.Equal(t, 0, fx.cache.Len(), "toda la caché se descarta al cerrar sesión")
}

func TestSignOut_EsIdempotente(t *testing.T) {
	fx := newFixture(t)
	fx.seedUser(t, "u1", "ana@acme.com", "")

	resp, err := fx.store.SignUp(context.Background(), dto.SignUpRequest{
		Email:    "otra@acme.com",
		Password: "secreta123",
	})
	require.NoError(t, err)
	claims, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)

	require.NoError(t, fx.store.SignOut(context.Background(), claims.SessionID))
	assert.NoError(t, fx.store.SignOut(context.Background(), claims.SessionID),
		"cerrar una sesión ya cerrada no es error")
}

// ──────────────────────────────────────────────────────────────────────────────
// Recover
// ──────────────────────────────────────────────────────────────────────────────

func TestRecover_SesionViva(t *testing.T) {
	fx := newFixture(t)
	fx.seedOrg(testOrgID)
	fx.seedUser(t, "u1", "ana@acme.com", testOrgID)

	signIn, err := fx.store.SignIn(context.Background(), dto.SignInRequest{
		Email:    "ana@acme.com",
		Password: "secreta123",
	})
	require.NoError(t, err)

	resp, err := fx.store.Recover(context.Background(), signIn.Token)
	require.NoError(t, err)

	assert.Equal(t, signIn.Token, resp.Token, "recuperar no reemite el token")
	require.NotNil(t, resp.Organization)
	assert.Equal(t, testOrgID, resp.Organization.ID)
}

func TestRecover_SesionRevocada(t *testing.T) {
	fx := newFixture(t)
	fx.seedOrg(testOrgID)
	fx.seedUser(t, "u1", "ana@acme.com", testOrgID)

	signIn, err := fx.store.SignIn(context.Background(), dto.SignInRequest{
		Email:    "ana@acme.com",
		Password: "secreta123",
	})
	require.NoError(t, err)
	claims, err := jwt.Parse(testSecret, signIn.Token)
	require.NoError(t, err)
	require.NoError(t, fx.store.SignOut(context.Background(), claims.SessionID))

	_, err = fx.store.Recover(context.Background(), signIn.Token)
	assert.ErrorIs(t, err, domain.ErrSessionExpired,
		"un JWT firmado pero con sesión revocada no recupera nada")
}

// Un fallo transitorio al resolver el perfil durante la recuperación degrada
// la sesión: la respuesta sale de la identidad mínima del registro de sesión.
func TestRecover_FalloDePerfilDegradaLaSesion(t *testing.T) {
	fx := newFixture(t)
	fx.seedOrg(testOrgID)
	fx.seedUser(t, "u1", "ana@acme.com", testOrgID)

	signIn, err := fx.store.SignIn(context.Background(), dto.SignInRequest{
		Email:    "ana@acme.com",
		Password: "secreta123",
	})
	require.NoError(t, err)

	fx.profiles.failWith = assert.AnError

	resp, err := fx.store.Recover(context.Background(), signIn.Token)
	require.NoError(t, err, "el fallo del perfil no invalida una sesión viva")

	assert.True(t, resp.Degraded)
	assert.Nil(t, resp.Organization)
	assert.Equal(t, signIn.Token, resp.Token)
	assert.Equal(t, "u1", resp.User.ID, "la identidad sale del registro de sesión")
	assert.Equal(t, testOrgID, resp.User.OrganizationID)
}

func TestRecover_TokenInvalido(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.store.Recover(context.Background(), "token.basura.aqui")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ──────────────────────────────────────────────────────────────────────────────
// Eventos de sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestEventos_SignInYSignOutNotifican(t *testing.T) {
	fx := newFixture(t)
	fx.seedOrg(testOrgID)
	fx.seedUser(t, "u1", "ana@acme.com", testOrgID)

	var mu sync.Mutex
	var events []auth.Event
	unsubscribe := fx.store.Subscribe(func(ev auth.Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})

	resp, err := fx.store.SignIn(context.Background(), dto.SignInRequest{
		Email:    "ana@acme.com",
		Password: "secreta123",
	})
	require.NoError(t, err)
	claims, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	require.NoError(t, fx.store.SignOut(context.Background(), claims.SessionID))

	mu.Lock()
	require.Len(t, events, 2)
	assert.Equal(t, auth.EventSignedIn, events[0].Type)
	assert.Equal(t, "u1", events[0].UserID)
	assert.Equal(t, testOrgID, events[0].OrganizationID)
	assert.Equal(t, auth.EventSignedOut, events[1].Type)
	assert.Equal(t, claims.SessionID, events[1].SessionID)
	assert.Equal(t, "u1", events[1].UserID)
	mu.Unlock()

	// Tras darse de baja no llegan más eventos.
	unsubscribe()
	_, err = fx.store.SignIn(context.Background(), dto.SignInRequest{
		Email:    "ana@acme.com",
		Password: "secreta123",
	})
	require.NoError(t, err)

	mu.Lock()
	assert.Len(t, events, 2)
	mu.Unlock()
}
