package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/crm-pro/internal/domain"
	"github.com/tu-usuario/crm-pro/internal/domain/repository"
	"github.com/tu-usuario/crm-pro/internal/infrastructure/session"
)

func newTestStore(t *testing.T) (*session.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return session.NewRedisStoreWithClient(client), mr
}

func testRecord() repository.SessionRecord {
	return repository.SessionRecord{
		UserID:         "00000000-0000-0000-0000-000000000001",
		OrganizationID: "00000000-0000-0000-0000-000000000002",
		Role:           "admin",
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
	}
}

func TestSaveAndLookup(t *testing.T) {
	store, _ := newTestStore(t)
	rec := testRecord()

	err := store.Save(context.Background(), "sess-1", rec, time.Now().Add(time.Hour))
	require.NoError(t, err)

	got, err := store.Lookup(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, rec.UserID, got.UserID)
	assert.Equal(t, rec.OrganizationID, got.OrganizationID)
	assert.Equal(t, rec.Role, got.Role)
}

func TestLookup_SesionInexistente(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Lookup(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestRevoke_InvalidaLaSesion(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Save(context.Background(), "sess-1", testRecord(), time.Now().Add(time.Hour)))

	require.NoError(t, store.Revoke(context.Background(), "sess-1"))

	_, err := store.Lookup(context.Background(), "sess-1")
	assert.ErrorIs(t, err, domain.ErrSessionExpired,
		"una sesión revocada se trata como expirada aunque el JWT siga firmado")
}

func TestRevoke_SesionInexistenteNoEsError(t *testing.T) {
	store, _ := newTestStore(t)
	assert.NoError(t, store.Revoke(context.Background(), "no-existe"))
}

func TestLookup_SesionVencidaPorTTL(t *testing.T) {
	store, mr := newTestStore(t)
	require.NoError(t, store.Save(context.Background(), "sess-1", testRecord(), time.Now().Add(time.Minute)))

	mr.FastForward(2 * time.Minute)

	_, err := store.Lookup(context.Background(), "sess-1")
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestSave_ExpiracionEnElPasado(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.Save(context.Background(), "sess-1", testRecord(), time.Now().Add(-time.Minute))
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}
