// Package cache implementa la caché de lecturas por tenant: clave compuesta
// (entidad, tenant, parámetros), ventana de frescura, de-duplicación de
// peticiones en vuelo e invalidación gruesa por tipo de entidad.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tu-usuario/crm-pro/internal/domain"
	"github.com/tu-usuario/crm-pro/internal/obs"
	"github.com/tu-usuario/crm-pro/pkg/logger"
)

// Key identifica una lectura cacheada. TenantID vacío hace fallar la lectura
// en seco (ErrNoTenant) sin tocar el gateway: nunca se cachea ni consulta
// nada sin organización resuelta.
type Key struct {
	Entity   string // "clients", "projects", "tasks", ...
	TenantID string
	Params   string // parámetros extra de la consulta (ej. project_id del filtro)
}

// String devuelve la clave plana usada para el mapa y el singleflight.
func (k Key) String() string {
	return k.Entity + "|" + k.TenantID + "|" + k.Params
}

// Params serializa parámetros opcionales de consulta en una clave estable.
func Params(parts ...string) string {
	return strings.Join(parts, "|")
}

// Options parámetros de operación de la caché.
type Options struct {
	TTL     time.Duration // ventana de frescura (default 5m)
	Retries int           // reintentos ante fallos transitorios (default 3)
	Backoff time.Duration // backoff base entre reintentos, se duplica (default 100ms)
}

type entryRec struct {
	value     any
	fetchedAt time.Time
}

// Store caché de lecturas. Seguro para uso concurrente. Las mutaciones nunca
// pasan por aquí: los casos de uso invalidan tras una mutación exitosa.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]entryRec
	byEntity map[string]map[string]struct{}

	group   singleflight.Group
	ttl     time.Duration
	retries int
	backoff time.Duration
	log     *logger.Logger

	// now inyectable para tests de frescura.
	now func() time.Time
}

// New construye la caché con las opciones dadas.
func New(opts Options, log *logger.Logger) *Store {
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	} else if opts.Retries == 0 {
		opts.Retries = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 100 * time.Millisecond
	}
	return &Store{
		entries:  make(map[string]entryRec),
		byEntity: make(map[string]map[string]struct{}),
		ttl:      opts.TTL,
		retries:  opts.Retries,
		backoff:  opts.Backoff,
		log:      log,
		now:      time.Now,
	}
}

// Get devuelve el valor cacheado si está dentro de la ventana de frescura; si
// no, ejecuta fetch (con de-duplicación: llamadas concurrentes con la misma
// clave comparten un único fetch) y cachea el resultado.
//
// Política de reintentos: hasta Retries reintentos con backoff exponencial para
// fallos transitorios; los errores de clase auth (domain.IsAuthError) nunca se
// reintentan. Si el fetch falla con un error no-auth y existe un valor vencido,
// se sirve el valor stale en lugar de descartarlo.
func (s *Store) Get(ctx context.Context, key Key, fetch func(ctx context.Context) (any, error)) (any, error) {
	if key.TenantID == "" {
		return nil, domain.ErrNoTenant
	}

	flat := key.String()
	if v, ok := s.lookupFresh(flat); ok {
		obs.CacheHit(key.Entity)
		return v, nil
	}

	obs.CacheMiss(key.Entity)
	v, err, _ := s.group.Do(flat, func() (any, error) {
		// Otra goroutine pudo haber poblado la entrada mientras esperábamos.
		if v, ok := s.lookupFresh(flat); ok {
			return v, nil
		}
		value, err := s.fetchWithRetry(ctx, key, fetch)
		if err != nil {
			if !domain.IsAuthError(err) {
				if stale, ok := s.lookupAny(flat); ok {
					obs.CacheStaleServed(key.Entity)
					s.log.Warn().Err(err).
						Str("entity", key.Entity).
						Str("tenant_id", key.TenantID).
						Msg("fallo transitorio, sirviendo datos stale")
					return stale, nil
				}
			}
			return nil, err
		}
		s.put(key, flat, value)
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Invalidate descarta todas las lecturas cacheadas del tipo de entidad
// (invalidación gruesa: simplicidad y corrección por encima de eficiencia).
func (s *Store) Invalidate(entity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys, ok := s.byEntity[entity]
	if !ok {
		return
	}
	for flat := range keys {
		delete(s.entries, flat)
	}
	delete(s.byEntity, entity)
	obs.CacheInvalidated(entity)
}

// InvalidateAll descarta toda la caché (ej. al cerrar sesión).
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entryRec)
	s.byEntity = make(map[string]map[string]struct{})
}

// Len devuelve el número de entradas vivas (para tests).
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// SetNow reemplaza el reloj (solo tests).
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) lookupFresh(flat string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.entries[flat]
	if !ok {
		return nil, false
	}
	if s.now().Sub(rec.fetchedAt) > s.ttl {
		return nil, false
	}
	return rec.value, true
}

func (s *Store) lookupAny(flat string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.entries[flat]
	if !ok {
		return nil, false
	}
	return rec.value, true
}

func (s *Store) put(key Key, flat string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[flat] = entryRec{value: value, fetchedAt: s.now()}
	set, ok := s.byEntity[key.Entity]
	if !ok {
		set = make(map[string]struct{})
		s.byEntity[key.Entity] = set
	}
	set[flat] = struct{}{}
}

func (s *Store) fetchWithRetry(ctx context.Context, key Key, fetch func(ctx context.Context) (any, error)) (any, error) {
	var lastErr error
	backoff := s.backoff
	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		value, err := fetch(ctx)
		if err == nil {
			return value, nil
		}
		lastErr = err
		if domain.IsAuthError(err) {
			// Los errores de autenticación/autorización no son transitorios.
			break
		}
		s.log.Debug().Err(err).
			Str("entity", key.Entity).
			Int("attempt", attempt+1).
			Msg("lectura fallida, reintentando")
	}
	return nil, lastErr
}

// GetTyped envoltorio genérico sobre Store.Get para recuperar el tipo concreto.
func GetTyped[T any](ctx context.Context, s *Store, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := s.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, domain.ErrConflict
	}
	return typed, nil
}
