package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/crm-pro/internal/application/dto"
	"github.com/tu-usuario/crm-pro/internal/domain"
	"github.com/tu-usuario/crm-pro/internal/domain/entity"
	"github.com/tu-usuario/crm-pro/internal/domain/repository"
	apphttp "github.com/tu-usuario/crm-pro/internal/interfaces/http"
	pkgjwt "github.com/tu-usuario/crm-pro/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testOrgID     = "00000000-0000-0000-0000-000000000002"
	testSessionID = "00000000-0000-0000-0000-000000000003"
	testIssuer    = "crm-pro-test"
	testExpMin    = 60
)

type fakeSessionRepo struct {
	mu   sync.Mutex
	recs map[string]repository.SessionRecord
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{recs: map[string]repository.SessionRecord{}}
}

func (f *fakeSessionRepo) Save(ctx context.Context, sessionID string, rec repository.SessionRecord, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs[sessionID] = rec
	return nil
}

func (f *fakeSessionRepo) Lookup(ctx context.Context, sessionID string) (*repository.SessionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recs[sessionID]
	if !ok {
		return nil, domain.ErrSessionExpired
	}
	return &rec, nil
}

func (f *fakeSessionRepo) Revoke(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.recs, sessionID)
	return nil
}

// buildTestApp construye una aplicación Fiber mínima con AuthMiddleware y un
// handler que expone la identidad cargada en locals.
func buildTestApp(sessions repository.SessionRepository, extra ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{apphttp.AuthMiddleware(testJWTSecret, sessions)}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":         apphttp.GetUserID(c),
			"organization_id": apphttp.GetOrganizationID(c),
			"role":            apphttp.GetRole(c),
			"session_id":      apphttp.GetSessionID(c),
		})
	})
	app.Get("/protected", handlers...)
	return app
}

func liveSession(t *testing.T, sessions *fakeSessionRepo, role string) string {
	t.Helper()
	sessions.recs[testSessionID] = repository.SessionRecord{
		UserID:         testUserID,
		OrganizationID: testOrgID,
		Role:           role,
		CreatedAt:      time.Now(),
	}
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testOrgID, role, testSessionID, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SesionVivaCargaLocals(t *testing.T) {
	sessions := newFakeSessionRepo()
	app := buildTestApp(sessions)

	resp := doRequest(t, app, liveSession(t, sessions, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testOrgID, body["organization_id"])
	assert.Equal(t, "admin", body["role"])
	assert.Equal(t, testSessionID, body["session_id"])
}

// Un JWT con firma válida pero sesión revocada se trata como expirado.
func TestAuthMiddleware_SesionRevocadaRetorna401(t *testing.T) {
	sessions := newFakeSessionRepo()
	app := buildTestApp(sessions)
	header := liveSession(t, sessions, "admin")

	require.NoError(t, sessions.Revoke(context.Background(), testSessionID))

	resp := doRequest(t, app, header)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "SESSION_EXPIRED")
}

// El registro de sesión manda sobre los claims: un cambio de rol posterior al
// sign-in se refleja sin reemitir el token.
func TestAuthMiddleware_ElRegistroDeSesionMandaSobreLosClaims(t *testing.T) {
	sessions := newFakeSessionRepo()
	app := buildTestApp(sessions)
	header := liveSession(t, sessions, "member")

	rec := sessions.recs[testSessionID]
	rec.Role = "admin"
	sessions.recs[testSessionID] = rec

	resp := doRequest(t, app, header)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "admin", body["role"], "el rol sale del registro, no del claim")
}

func TestAuthMiddleware_SinHeaderRetorna401(t *testing.T) {
	app := buildTestApp(newFakeSessionRepo())
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenMalformadoRetorna401(t *testing.T) {
	app := buildTestApp(newFakeSessionRepo())
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

// ──────────────────────────────────────────────────────────────────────────────
// RBAC
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireAdmin_MemberBloqueado(t *testing.T) {
	sessions := newFakeSessionRepo()
	app := buildTestApp(sessions, apphttp.RequireAdmin())

	resp := doRequest(t, app, liveSession(t, sessions, "member"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireAdmin_AdminYSuperAdminPasan(t *testing.T) {
	for _, role := range []string{"admin", "super_admin"} {
		sessions := newFakeSessionRepo()
		app := buildTestApp(sessions, apphttp.RequireAdmin())

		resp := doRequest(t, app, liveSession(t, sessions, role))
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, "rol %s", role)
	}
}

func TestRequireSuperAdmin_AdminBloqueado(t *testing.T) {
	sessions := newFakeSessionRepo()
	app := buildTestApp(sessions, apphttp.RequireSuperAdmin())

	resp := doRequest(t, app, liveSession(t, sessions, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireActiveTenant
// ──────────────────────────────────────────────────────────────────────────────

type fakeTenant struct {
	org *dto.OrganizationResponse
	err error
}

func (f *fakeTenant) GetOrganization(ctx context.Context, organizationID string) (*dto.OrganizationResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.org, nil
}

func TestRequireActiveTenant_SinOrganizacionRetornaSetupRequired(t *testing.T) {
	sessions := newFakeSessionRepo()
	sessions.recs[testSessionID] = repository.SessionRecord{
		UserID:    testUserID,
		Role:      "member",
		CreatedAt: time.Now(),
	}
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "", "member", testSessionID, testIssuer, testExpMin)
	require.NoError(t, err)

	app := buildTestApp(sessions, apphttp.RequireActiveTenant(nil))

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "SETUP_REQUIRED",
		"sin organización resuelta las rutas scoped cierran en seco")
}

func TestRequireActiveTenant_TenantSuspendidoRetorna403(t *testing.T) {
	for _, status := range []string{entity.TenantSuspended, entity.TenantCancelled} {
		sessions := newFakeSessionRepo()
		tenant := &fakeTenant{org: &dto.OrganizationResponse{ID: testOrgID, Status: status}}
		app := buildTestApp(sessions, apphttp.RequireActiveTenant(tenant))

		resp := doRequest(t, app, liveSession(t, sessions, "admin"))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, "estado %s", status)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Contains(t, string(body), "TENANT_SUSPENDED", "estado %s", status)
	}
}

func TestRequireActiveTenant_TrialOpera(t *testing.T) {
	sessions := newFakeSessionRepo()
	tenant := &fakeTenant{org: &dto.OrganizationResponse{ID: testOrgID, Status: entity.TenantTrial}}
	app := buildTestApp(sessions, apphttp.RequireActiveTenant(tenant))

	resp := doRequest(t, app, liveSession(t, sessions, "member"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "trial opera igual que active")
}

// Fallo de infraestructura al consultar el tenant: 503, no 403.
func TestRequireActiveTenant_FalloDeConsultaRetorna503(t *testing.T) {
	sessions := newFakeSessionRepo()
	app := buildTestApp(sessions, apphttp.RequireActiveTenant(&fakeTenant{err: assert.AnError}))

	resp := doRequest(t, app, liveSession(t, sessions, "member"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "TENANT_CHECK_FAILED")
}
