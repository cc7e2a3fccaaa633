// Package session persiste los registros de sesión en Redis: el sign-in crea
// el registro, la recuperación al arrancar y el middleware lo verifican, y el
// sign-out lo revoca.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tu-usuario/crm-pro/internal/domain"
	"github.com/tu-usuario/crm-pro/internal/domain/repository"
)

var _ repository.SessionRepository = (*RedisStore)(nil)

// payload forma serializada del registro en Redis.
type payload struct {
	UserID         string    `json:"user_id"`
	OrganizationID string    `json:"organization_id"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

// RedisStore almacén de sesiones respaldado por Redis.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore conecta a Redis a partir de la URL y verifica la conexión.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("conectar a redis: %w", err)
	}

	return NewRedisStoreWithClient(client), nil
}

// NewRedisStoreWithClient construye el almacén sobre un cliente existente
// (lo usan los tests con miniredis).
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "session:"}
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// Save persiste el registro de sesión con TTL hasta expiresAt.
func (s *RedisStore) Save(ctx context.Context, sessionID string, rec repository.SessionRecord, expiresAt time.Time) error {
	data, err := json.Marshal(payload{
		UserID:         rec.UserID,
		OrganizationID: rec.OrganizationID,
		Role:           rec.Role,
		CreatedAt:      rec.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal sesión: %w", err)
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return domain.ErrSessionExpired
	}
	if err := s.client.Set(ctx, s.key(sessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("guardar sesión: %w", err)
	}
	return nil
}

// Lookup recupera el registro; ErrSessionExpired si no existe o ya venció.
func (s *RedisStore) Lookup(ctx context.Context, sessionID string) (*repository.SessionRecord, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("consultar sesión: %w", err)
	}
	var p payload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("unmarshal sesión: %w", err)
	}
	return &repository.SessionRecord{
		UserID:         p.UserID,
		OrganizationID: p.OrganizationID,
		Role:           p.Role,
		CreatedAt:      p.CreatedAt,
	}, nil
}

// Revoke elimina el registro (sign-out). Revocar una sesión inexistente no es error.
func (s *RedisStore) Revoke(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("revocar sesión: %w", err)
	}
	return nil
}

// Close cierra la conexión con Redis.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping verifica que Redis sea alcanzable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
