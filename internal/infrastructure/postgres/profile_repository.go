package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/crm-pro/internal/domain"
	"github.com/tu-usuario/crm-pro/internal/domain/entity"
	"github.com/tu-usuario/crm-pro/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo implementación de ProfileRepository (usable con pool o tx).
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

const profileColumns = `
	id, COALESCE(organization_id::text, ''), email, password_hash,
	COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(role, 'member'),
	COALESCE(avatar_url, ''), COALESCE(status, 'active'), COALESCE(settings, '{}'::jsonb),
	created_at, updated_at`

// Create persiste un nuevo perfil. organization_id vacío se guarda como NULL.
func (r *ProfileRepo) Create(ctx context.Context, p *entity.Profile) error {
	query := `
		INSERT INTO profiles (id, organization_id, email, password_hash, first_name, last_name, role, avatar_url, status, settings, created_at, updated_at)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.OrganizationID, p.Email, p.PasswordHash, p.FirstName, p.LastName,
		p.Role, p.AvatarURL, p.Status, p.Settings, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetByID obtiene un perfil por ID.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get profile")
}

// GetByEmail obtiene un perfil por email (único global).
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, email), "get profile by email")
}

// ListByOrganization lista los perfiles del tenant, más recientes primero.
func (r *ProfileRepo) ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE organization_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update actualiza los campos editables del perfil.
func (r *ProfileRepo) Update(ctx context.Context, p *entity.Profile) error {
	query := `
		UPDATE profiles
		SET first_name = $2, last_name = $3, avatar_url = $4, status = $5, settings = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, p.ID, p.FirstName, p.LastName, p.AvatarURL, p.Status, p.Settings, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// UpdateRole cambia solo el rol del perfil.
func (r *ProfileRepo) UpdateRole(ctx context.Context, id, role string) error {
	_, err := r.q.Exec(ctx, `UPDATE profiles SET role = $2, updated_at = now() WHERE id = $1`, id, role)
	if err != nil {
		return fmt.Errorf("update profile role: %w", err)
	}
	return nil
}

// AssignOrganization vincula el perfil a un tenant.
func (r *ProfileRepo) AssignOrganization(ctx context.Context, id, organizationID string) error {
	_, err := r.q.Exec(ctx, `UPDATE profiles SET organization_id = $2, updated_at = now() WHERE id = $1`, id, organizationID)
	if err != nil {
		return fmt.Errorf("assign organization: %w", err)
	}
	return nil
}

func (r *ProfileRepo) scanOne(row pgx.Row, op string) (*entity.Profile, error) {
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func scanProfile(row pgx.Row) (*entity.Profile, error) {
	var p entity.Profile
	err := row.Scan(
		&p.ID, &p.OrganizationID, &p.Email, &p.PasswordHash,
		&p.FirstName, &p.LastName, &p.Role,
		&p.AvatarURL, &p.Status, &p.Settings,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
