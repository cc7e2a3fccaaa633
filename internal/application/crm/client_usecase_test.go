package crm_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/crm-pro/internal/application/crm"
	"github.com/tu-usuario/crm-pro/internal/application/dto"
	"github.com/tu-usuario/crm-pro/internal/cache"
	"github.com/tu-usuario/crm-pro/internal/domain"
	"github.com/tu-usuario/crm-pro/internal/domain/entity"
	"github.com/tu-usuario/crm-pro/pkg/logger"
)

const (
	orgA   = "00000000-0000-0000-0000-0000000000aa"
	orgB   = "00000000-0000-0000-0000-0000000000bb"
	userID = "00000000-0000-0000-0000-000000000001"
)

func newTestCache() *cache.Store {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return cache.New(cache.Options{Retries: 1, Backoff: time.Millisecond}, log)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fake repo de clientes
// ──────────────────────────────────────────────────────────────────────────────

type fakeClientRepo struct {
	mu        sync.Mutex
	byID      map[string]*entity.Client
	listCalls int
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{byID: map[string]*entity.Client{}}
}

func (f *fakeClientRepo) Create(ctx context.Context, c *entity.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClientRepo) ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	var out []*entity.Client
	for _, c := range f.byID {
		if c.OrganizationID == organizationID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeClientRepo) Update(ctx context.Context, c *entity.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeClientRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestClientCreate_EstampaOrganizacionYCreador(t *testing.T) {
	repo := newFakeClientRepo()
	uc := crm.NewClientUseCase(repo, newTestCache())

	resp, err := uc.Create(context.Background(), orgA, userID, dto.CreateClientRequest{
		Name:    "ACME",
		Company: "ACME S.A.S",
	})
	require.NoError(t, err)

	assert.Equal(t, orgA, resp.OrganizationID, "organization_id lo estampa el servidor")
	assert.Equal(t, userID, resp.CreatedBy, "created_by lo estampa el servidor")

	stored, err := repo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, orgA, stored.OrganizationID)
}

func TestClientCreate_SinTenantNoTocaElRepositorio(t *testing.T) {
	repo := newFakeClientRepo()
	uc := crm.NewClientUseCase(repo, newTestCache())

	_, err := uc.Create(context.Background(), "", userID, dto.CreateClientRequest{Name: "ACME"})

	assert.ErrorIs(t, err, domain.ErrNoTenant)
	assert.Empty(t, repo.byID, "sin tenant no debe escribirse nada")
}

func TestClientCreate_NombreObligatorio(t *testing.T) {
	uc := crm.NewClientUseCase(newFakeClientRepo(), newTestCache())
	_, err := uc.Create(context.Background(), orgA, userID, dto.CreateClientRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClientList_CacheaYRefrescaTrasMutacion(t *testing.T) {
	repo := newFakeClientRepo()
	uc := crm.NewClientUseCase(repo, newTestCache())

	_, err := uc.Create(context.Background(), orgA, userID, dto.CreateClientRequest{Name: "ACME"})
	require.NoError(t, err)

	_, err = uc.List(context.Background(), orgA)
	require.NoError(t, err)
	_, err = uc.List(context.Background(), orgA)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls, "la segunda lectura sale de caché")

	// Una mutación exitosa invalida el listado cacheado.
	_, err = uc.Create(context.Background(), orgA, userID, dto.CreateClientRequest{Name: "Globex"})
	require.NoError(t, err)

	list, err := uc.List(context.Background(), orgA)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls, "tras la mutación se refresca del gateway")
	assert.Len(t, list, 2)
}

// El acceso cruzado de tenants responde not found, nunca revela existencia.
func TestClientGet_OtroTenantEsNotFound(t *testing.T) {
	repo := newFakeClientRepo()
	uc := crm.NewClientUseCase(repo, newTestCache())

	resp, err := uc.Create(context.Background(), orgA, userID, dto.CreateClientRequest{Name: "ACME"})
	require.NoError(t, err)

	_, err = uc.Get(context.Background(), orgB, resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClientUpdate_OtroTenantEsNotFound(t *testing.T) {
	repo := newFakeClientRepo()
	uc := crm.NewClientUseCase(repo, newTestCache())

	resp, err := uc.Create(context.Background(), orgA, userID, dto.CreateClientRequest{Name: "ACME"})
	require.NoError(t, err)

	name := "Intruso"
	_, err = uc.Update(context.Background(), orgB, resp.ID, dto.UpdateClientRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stored, _ := repo.GetByID(context.Background(), resp.ID)
	assert.Equal(t, "ACME", stored.Name, "la mutación cruzada no debe aplicarse")
}

func TestClientDelete_OtroTenantEsNotFound(t *testing.T) {
	repo := newFakeClientRepo()
	uc := crm.NewClientUseCase(repo, newTestCache())

	resp, err := uc.Create(context.Background(), orgA, userID, dto.CreateClientRequest{Name: "ACME"})
	require.NoError(t, err)

	err = uc.Delete(context.Background(), orgB, resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stored, _ := repo.GetByID(context.Background(), resp.ID)
	assert.NotNil(t, stored, "el registro sigue existiendo")
}

func TestClientList_AisladoPorTenant(t *testing.T) {
	repo := newFakeClientRepo()
	uc := crm.NewClientUseCase(repo, newTestCache())

	_, err := uc.Create(context.Background(), orgA, userID, dto.CreateClientRequest{Name: "DeA"})
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), orgB, userID, dto.CreateClientRequest{Name: "DeB"})
	require.NoError(t, err)

	listA, err := uc.List(context.Background(), orgA)
	require.NoError(t, err)
	require.Len(t, listA, 1)
	assert.Equal(t, "DeA", listA[0].Name)
}
