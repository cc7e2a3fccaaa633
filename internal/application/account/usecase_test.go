package account_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/crm-pro/internal/application/account"
	"github.com/tu-usuario/crm-pro/internal/application/dto"
	"github.com/tu-usuario/crm-pro/internal/cache"
	"github.com/tu-usuario/crm-pro/internal/domain"
	"github.com/tu-usuario/crm-pro/internal/domain/entity"
	"github.com/tu-usuario/crm-pro/pkg/logger"
)

const (
	orgA = "00000000-0000-0000-0000-0000000000aa"
	orgB = "00000000-0000-0000-0000-0000000000bb"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProfiles struct {
	mu   sync.Mutex
	byID map[string]*entity.Profile
}

func newFakeProfiles() *fakeProfiles { return &fakeProfiles{byID: map[string]*entity.Profile{}} }

func (f *fakeProfiles) Create(ctx context.Context, p *entity.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakeProfiles) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) GetByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	return nil, nil
}

func (f *fakeProfiles) ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Profile
	for _, p := range f.byID {
		if p.OrganizationID == organizationID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeProfiles) Update(ctx context.Context, p *entity.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.byID[p.ID] = &cp
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
	mu   sync.Mutex
	byID map[string]*entity.Organization
}

func newFakeOrgs() *fakeOrgs { return &fakeOrgs{byID: map[string]*entity.Organization{}} }

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
	o, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrgs) GetBySlug(ctx context.Context, slug string) (*entity.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.byID {
		if o.Slug == slug {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeOrgs) Update(ctx context.Context, o *entity.Organization) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *o
	f.byID[o.ID] = &cp
	return nil
}

func (f *fakeOrgs) UpdateStatus(ctx context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.byID[id]; ok {
		o.Status = status
	}
	return nil
}

func newUC(t *testing.T) (*account.UseCase, *fakeProfiles, *fakeOrgs) {
	t.Helper()
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	profiles := newFakeProfiles()
	orgs := newFakeOrgs()
	uc := account.NewUseCase(profiles, orgs, cache.New(cache.Options{}, log), log)
	return uc, profiles, orgs
}

// ──────────────────────────────────────────────────────────────────────────────
// Roles de miembros
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateMemberRole_SoloSuperAdminOtorgaSuperAdmin(t *testing.T) {
	uc, profiles, _ := newUC(t)
	profiles.byID["m1"] = &entity.Profile{ID: "m1", OrganizationID: orgA, Role: entity.RoleMember}

	err := uc.UpdateMemberRole(context.Background(), orgA, entity.RoleAdmin, "m1", entity.RoleSuperAdmin)
	assert.ErrorIs(t, err, domain.ErrForbidden, "un admin no puede otorgar super_admin")

	err = uc.UpdateMemberRole(context.Background(), orgA, entity.RoleSuperAdmin, "m1", entity.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSuperAdmin, profiles.byID["m1"].Role)
}

func TestUpdateMemberRole_RolInvalido(t *testing.T) {
	uc, _, _ := newUC(t)
	err := uc.UpdateMemberRole(context.Background(), orgA, entity.RoleAdmin, "m1", "duque")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateMemberRole_MiembroDeOtroTenant(t *testing.T) {
	uc, profiles, _ := newUC(t)
	profiles.byID["m1"] = &entity.Profile{ID: "m1", OrganizationID: orgB, Role: entity.RoleMember}

	err := uc.UpdateMemberRole(context.Background(), orgA, entity.RoleAdmin, "m1", entity.RoleManager)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, entity.RoleMember, profiles.byID["m1"].Role, "el rol no debe cambiar")
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta de organización
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrganization_VinculaAlCreadorComoAdmin(t *testing.T) {
	uc, profiles, orgs := newUC(t)
	profiles.byID["u1"] = &entity.Profile{ID: "u1", Email: "ana@acme.com", Role: entity.RoleMember}

	resp, err := uc.CreateOrganization(context.Background(), "u1", dto.CreateOrganizationRequest{
		Name: "Agencia Créativa",
	})
	require.NoError(t, err)

	assert.Equal(t, "agencia-creativa", resp.Slug, "slug derivado del nombre")
	assert.Equal(t, entity.TenantTrial, resp.Status, "el tenant nace en trial")
	assert.Equal(t, entity.PlanFree, resp.SubscriptionPlan, "plan por defecto: free")

	p := profiles.byID["u1"]
	assert.Equal(t, resp.ID, p.OrganizationID, "el creador queda vinculado al tenant")
	assert.Equal(t, entity.RoleAdmin, p.Role, "el creador pasa a admin")

	stored, _ := orgs.GetByID(context.Background(), resp.ID)
	assert.NotNil(t, stored)
}

func TestCreateOrganization_UsuarioConTenantEsConflicto(t *testing.T) {
	uc, profiles, _ := newUC(t)
	profiles.byID["u1"] = &entity.Profile{ID: "u1", OrganizationID: orgA, Role: entity.RoleAdmin}

	_, err := uc.CreateOrganization(context.Background(), "u1", dto.CreateOrganizationRequest{Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición de organización
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateOrganization_ElSlugNoCambiaAlRenombrar(t *testing.T) {
	uc, _, orgs := newUC(t)
	orgs.byID[orgA] = &entity.Organization{ID: orgA, Name: "ACME", Slug: "acme", Status: entity.TenantActive, SubscriptionPlan: entity.PlanFree}

	name := "ACME Renombrada"
	resp, err := uc.UpdateOrganization(context.Background(), orgA, dto.UpdateOrganizationRequest{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "ACME Renombrada", resp.Name)
	assert.Equal(t, "acme", resp.Slug, "el slug es el identificador estable del tenant")
}

func TestUpdateOrganizationStatus_EstadoInvalido(t *testing.T) {
	uc, _, orgs := newUC(t)
	orgs.byID[orgA] = &entity.Organization{ID: orgA, Status: entity.TenantActive}

	err := uc.UpdateOrganizationStatus(context.Background(), orgA, "frozen")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = uc.UpdateOrganizationStatus(context.Background(), orgA, entity.TenantSuspended)
	require.NoError(t, err)
	assert.Equal(t, entity.TenantSuspended, orgs.byID[orgA].Status)
}
