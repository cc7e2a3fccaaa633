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

var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

// OrganizationRepo implementación de OrganizationRepository (usable con pool o tx).
type OrganizationRepo struct {
	q Querier
}

// NewOrganizationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrganizationRepository(q Querier) *OrganizationRepo {
	return &OrganizationRepo{q: q}
}

const organizationColumns = `
	id, name, slug, COALESCE(status, 'trial'), COALESCE(subscription_plan, 'free'),
	COALESCE(settings, '{}'::jsonb), created_at, updated_at`

// Create persiste una nueva organización. ErrDuplicate si el slug ya existe.
func (r *OrganizationRepo) Create(ctx context.Context, o *entity.Organization) error {
	query := `
		INSERT INTO organizations (id, name, slug, status, subscription_plan, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.Name, o.Slug, o.Status, o.SubscriptionPlan, o.Settings, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

// GetByID obtiene una organización por ID.
func (r *OrganizationRepo) GetByID(ctx context.Context, id string) (*entity.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get organization")
}

// GetBySlug obtiene una organización por slug.
func (r *OrganizationRepo) GetBySlug(ctx context.Context, slug string) (*entity.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE slug = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, slug), "get organization by slug")
}

// Update actualiza nombre, plan y settings de la organización.
func (r *OrganizationRepo) Update(ctx context.Context, o *entity.Organization) error {
	query := `
		UPDATE organizations
		SET name = $2, subscription_plan = $3, settings = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, o.ID, o.Name, o.SubscriptionPlan, o.Settings, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update organization: %w", err)
	}
	return nil
}

// UpdateStatus cambia solo el estado del tenant (flujo administrativo).
func (r *OrganizationRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.q.Exec(ctx, `UPDATE organizations SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update organization status: %w", err)
	}
	return nil
}

func (r *OrganizationRepo) scanOne(row pgx.Row, op string) (*entity.Organization, error) {
	var o entity.Organization
	err := row.Scan(&o.ID, &o.Name, &o.Slug, &o.Status, &o.SubscriptionPlan, &o.Settings, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &o, nil
}
